package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	numfmt "github.com/goliatone/go-numfmt"
)

// requestFlags are the flags shared by format and resolve.
type requestFlags struct {
	preset     string
	locales    []string
	options    []string
	allowEmpty bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.preset, "preset", "p", "", "named preset to start from")
	flags.StringSliceVarP(&f.locales, "locale", "l", nil, "locale preference list, overrides the configured locales")
	flags.StringArrayVarP(&f.options, "option", "o", nil, "inline option as key=value, e.g. -o maximumFractionDigits=1")
	flags.BoolVar(&f.allowEmpty, "allow-empty", false, "render a missing value as an empty string")
}

// request builds a FormatRequest for raw, where "" and "null" mean no value.
func (f *requestFlags) request(raw string) (numfmt.FormatRequest, error) {
	req := numfmt.FormatRequest{
		Format:     f.preset,
		Locale:     f.locales,
		AllowEmpty: f.allowEmpty,
	}

	for _, pair := range f.options {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return req, fmt.Errorf("%w: option %q must be key=value", numfmt.ErrInvalidArgument, pair)
		}
		if err := req.Options.SetString(strings.TrimSpace(key), value); err != nil {
			return req, err
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return req, nil
	}
	value, ok, err := numfmt.NumberValue(json.Number(raw))
	if err != nil {
		return req, err
	}
	if ok {
		req.Value = numfmt.Float(value)
	}
	return req, nil
}

func newFormatCommand(a *app) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "format VALUE...",
		Short: "Format one or more numbers",
		Long: `Format each VALUE with the selected preset and inline options, one result per line.

Pass "null" or an empty string as VALUE to exercise --allow-empty.`,
		Example: `  # Grouped decimal for German
  numfmt format 1234567.891 --locale de

  # Preset from a format file, overriding one option
  numfmt format 1 --format-file formats.yaml -p currency2 -o minimumFractionDigits=0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := a.build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, raw := range args {
				result, err := formatOne(cmd.Context(), resolver, &flags, raw)
				if err != nil {
					return fmt.Errorf("format %q: %w", raw, err)
				}
				fmt.Fprintln(out, result)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func formatOne(ctx context.Context, resolver *numfmt.Resolver, flags *requestFlags, raw string) (string, error) {
	req, err := flags.request(raw)
	if err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return resolver.FormatContext(ctx, req)
}

func newResolveCommand(a *app) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:     "resolve",
		Short:   "Show the merged options and locales a format call would use",
		Example: `  numfmt resolve -p currency2 -o currency=EUR --locale fr`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, resolver, err := a.build()
			if err != nil {
				return err
			}

			req, err := flags.request("")
			if err != nil {
				return err
			}
			resolution, err := resolver.Resolve(req)
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(map[string]any{
				"format":        resolution.Format,
				"preset_found":  resolution.PresetFound,
				"options":       resolution.Options.Map(),
				"locales":       resolution.Locales,
				"locale_source": resolution.LocaleSource,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
