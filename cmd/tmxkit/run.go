package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tmxkit/content"
	"tmxkit/state"
	"tmxkit/tmx"
)

func loaderOptions(env *state.LocalEnv) content.Options {
	return content.Options{
		Lenient:     env.Cfg.Document.Loader.Policy == "lenient",
		AssignTUIDs: env.Cfg.Document.Loader.AssignTUIDs,
	}
}

// runValidate loads every source strictly and reports the first problem in
// each. A file only passes when all of its translation units parse and all of
// its segments serialize back, pairing checks included.
func runValidate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no input files specified")
	}
	env := state.EnvFromContext(ctx)

	var result error
	for _, path := range cmd.Args().Slice() {
		c, err := content.LoadFile(ctx, path, content.Options{}, env.Log)
		if err != nil {
			env.Log.Error("Validation failed", zap.String("file", path), zap.Error(err))
			result = multierr.Append(result, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if err := validateSegments(c.TM); err != nil {
			env.Log.Error("Validation failed", zap.String("file", path), zap.Error(err))
			result = multierr.Append(result, fmt.Errorf("%s: %w", path, err))
			continue
		}
		env.Log.Info("Validation passed", zap.String("file", path), zap.Int("units", len(c.TM.Tus)))
	}
	return result
}

func validateSegments(tm *tmx.Tmx) error {
	for i := range tm.Tus {
		tu := &tm.Tus[i]
		for j := range tu.Tuvs {
			if err := tmx.ValidateSegment(tu.Tuvs[j].Segment); err != nil {
				return fmt.Errorf("tu %d, tuv %d (%s): %w", i+1, j+1, tu.Tuvs[j].Lang, err)
			}
		}
	}
	return nil
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}
	env := state.EnvFromContext(ctx)

	path := cmd.Args().Get(0)
	c, err := content.LoadFile(ctx, path, loaderOptions(env), env.Log)
	if err != nil {
		return err
	}

	h := c.TM.Header
	variants := 0
	langs := map[string]int{}
	for i := range c.TM.Tus {
		for j := range c.TM.Tus[i].Tuvs {
			variants++
			langs[c.TM.Tus[i].Tuvs[j].Lang]++
		}
	}
	langList := make([]string, 0, len(langs))
	for lang, n := range langs {
		langList = append(langList, fmt.Sprintf("%s(%d)", lang, n))
	}

	fmt.Printf("File:            %s\n", path)
	fmt.Printf("Creation tool:   %s %s\n", h.CreationTool, h.CreationToolVersion)
	fmt.Printf("Segment type:    %s\n", h.Segtype)
	fmt.Printf("Original format: %s\n", h.TMF)
	fmt.Printf("Source language: %s\n", h.SrcLang)
	fmt.Printf("Data type:       %s\n", h.DataType)
	fmt.Printf("Units:           %d\n", len(c.TM.Tus))
	fmt.Printf("Variants:        %d\n", variants)
	fmt.Printf("Languages:       %s\n", strings.Join(langList, ", "))
	if c.Skipped > 0 {
		fmt.Printf("Skipped units:   %d\n", c.Skipped)
	}
	return nil
}

// runNormalize rewrites a file through the structural model: parse, optionally
// assign tuids, serialize. The output carries the same content in canonical
// form.
func runNormalize(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 || cmd.Args().Len() > 2 {
		return fmt.Errorf("expected SOURCE and optional DESTINATION")
	}
	env := state.EnvFromContext(ctx)
	env.Overwrite = cmd.Bool("overwrite")

	opts := loaderOptions(env)
	if cmd.Bool("lenient") {
		opts.Lenient = true
	}
	if cmd.Bool("assign-tuids") {
		opts.AssignTUIDs = true
	}

	src := cmd.Args().Get(0)
	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = strings.TrimSuffix(src, ".tmx") + ".out.tmx"
	}
	if !env.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination '%s' already exists, use --overwrite", dst)
		}
	}

	c, err := content.LoadFile(ctx, src, opts, env.Log)
	if err != nil {
		return err
	}
	if c.Skipped > 0 {
		env.Log.Warn("Some translation units were dropped", zap.Int("skipped", c.Skipped))
	}
	if err := c.SaveFile(dst); err != nil {
		return err
	}
	env.Log.Info("File normalized",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Int("units", len(c.TM.Tus)))
	return nil
}
