package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"tmxkit/tmx"
)

// Options controls document loading policy. The core codec in the tmx
// package is strict and silent; everything lossy or noisy happens here.
type Options struct {
	// Lenient skips translation units that fail to parse instead of
	// aborting the load. Header problems always abort.
	Lenient bool
	// AssignTUIDs gives every unit without a tuid a newly generated one.
	AssignTUIDs bool
}

// Content holds a loaded translation memory together with its source DOM and
// whatever was diagnosed while loading it.
type Content struct {
	SrcName string
	Doc     *etree.Document
	TM      *tmx.Tmx

	// lenient-mode leftovers
	Skipped int   // translation units dropped during the load
	Issues  error // aggregated per-unit parse errors, nil when clean
}

// newDocument creates an etree document configured for TMX input: legacy
// encodings are honored through the charset reader and output is written in
// canonical form so character data in segments survives byte for byte.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	return doc
}

// Load reads and parses a TMX document.
func Load(ctx context.Context, r io.Reader, srcName string, opts Options, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := newDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read TMX: %w", err)
	}

	c := &Content{SrcName: srcName, Doc: doc}

	var err error
	if opts.Lenient {
		err = c.loadLenient(doc, log)
	} else {
		c.TM, err = tmx.ParseDocument(doc, log)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse TMX: %w", err)
	}

	if opts.AssignTUIDs {
		if err := c.assignTUIDs(log); err != nil {
			return nil, err
		}
	}
	c.checkLanguages(log)
	return c, nil
}

// loadLenient walks the body itself so a single malformed unit costs only
// that unit. The header is not negotiable: without valid document-wide
// defaults the rest cannot be interpreted.
func (c *Content) loadLenient(doc *etree.Document, log *zap.Logger) error {
	root := doc.Root()
	if root == nil || root.Tag != "tmx" {
		return fmt.Errorf("document root is not <tmx>")
	}
	if v := root.SelectAttrValue("version", ""); v != "1.4" {
		log.Warn("Unexpected TMX version", zap.String("version", v))
	}

	hdr := root.SelectElement("header")
	if hdr == nil {
		return fmt.Errorf("document has no <header>")
	}
	header, err := tmx.ParseHeader(hdr, log)
	if err != nil {
		return err
	}

	tm := &tmx.Tmx{Header: header}
	if body := root.SelectElement("body"); body != nil {
		for i, el := range body.ChildElements() {
			if el.Tag != "tu" {
				log.Warn("Skipping unexpected tag in body", zap.String("tag", el.Tag))
				continue
			}
			tu, err := tmx.ParseTu(el, log)
			if err != nil {
				log.Warn("Skipping malformed translation unit",
					zap.Int("number", i+1),
					zap.String("tuid", el.SelectAttrValue("tuid", "")),
					zap.Error(err))
				c.Skipped++
				c.Issues = multierr.Append(c.Issues, fmt.Errorf("tu %d: %w", i+1, err))
				continue
			}
			tm.Tus = append(tm.Tus, tu)
		}
	}
	c.TM = tm
	return nil
}

func (c *Content) assignTUIDs(log *zap.Logger) error {
	assigned := 0
	for i := range c.TM.Tus {
		if c.TM.Tus[i].TUID != "" {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("unable to generate tuid: %w", err)
		}
		c.TM.Tus[i].TUID = id.String()
		assigned++
	}
	if assigned > 0 {
		log.Info("Assigned generated tuids", zap.Int("count", assigned))
	}
	return nil
}

// checkLanguages warns about language tags that do not parse as RFC 3066 and
// about variants whose tag never matches the declared source language. The
// srclang value "*all*" declares every variant a potential source.
func (c *Content) checkLanguages(log *zap.Logger) {
	if src := c.TM.Header.SrcLang; src != "*all*" {
		if _, ok := tmx.NormalizeLang(src); !ok {
			log.Warn("Header srclang is not a well-formed language tag", zap.String("srclang", src))
		}
	}
	seen := map[string]bool{}
	for i := range c.TM.Tus {
		for j := range c.TM.Tus[i].Tuvs {
			lang := c.TM.Tus[i].Tuvs[j].Lang
			if seen[lang] {
				continue
			}
			seen[lang] = true
			if _, ok := tmx.NormalizeLang(lang); !ok {
				log.Warn("Variant language is not a well-formed language tag", zap.String("lang", lang))
			}
		}
	}
}

// Save serializes the in-memory document. The output is written exactly as
// built, without indentation: pretty-printing would inject whitespace into
// the mixed content of seg elements.
func (c *Content) Save(w io.Writer) error {
	doc, err := tmx.BuildDocument(c.TM)
	if err != nil {
		return fmt.Errorf("unable to build TMX: %w", err)
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write TMX: %w", err)
	}
	return nil
}

// LoadFile is Load over a file path.
func LoadFile(ctx context.Context, path string, opts Options, log *zap.Logger) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(ctx, f, filepath.Base(path), opts, log)
}

// SaveFile is Save over a file path.
func (c *Content) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
