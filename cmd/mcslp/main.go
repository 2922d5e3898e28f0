// Command mcslp exposes the §6 command surface over a cobra CLI: probing
// a server (mcheck), switching the active locale (set_lang), reporting it
// (lang_now), and listing every known locale (lang_list) — plus each
// command's Chinese alias. Grounded on the teacher's main.go/internal/cli
// command-dispatch shape, rebuilt on github.com/spf13/cobra the way
// TortleWortle-gate and officialpriyam-Propel-Wings both pull it in.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	mcslpconfig "mcslp/internal/config"
	"mcslp/internal/format"
	"mcslp/internal/lang"
	"mcslp/internal/orchestrator"
	"mcslp/internal/resolve"
	"mcslp/internal/status"
)

func main() {
	log.SetHandler(cli.Default)

	cfg, err := mcslpconfig.Default()
	if err != nil {
		log.WithError(err).Fatal("loading default configuration")
	}

	tbl, err := lang.Load(cfg.LanguageFilePath)
	if err != nil {
		log.WithError(err).Fatal("loading language table")
	}
	if res := tbl.SetLang(cfg.Language); res == lang.SetLangUnknown {
		log.Warnf("configured language %q is unknown, staying on %s", cfg.Language, tbl.Current())
	}

	root := newRootCmd(cfg, tbl)
	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("command failed")
	}
}

func newRootCmd(cfg *mcslpconfig.Config, tbl *lang.Table) *cobra.Command {
	root := &cobra.Command{
		Use:   "mcslp",
		Short: "Probe a Minecraft server's list-ping status across every wire protocol",
	}

	root.AddCommand(
		newMcheckCmd(cfg, tbl, "mcheck", "查服"),
		newSetLangCmd(tbl, "set_lang", "设置语言"),
		newLangNowCmd(tbl, "lang_now", "当前语言"),
		newLangListCmd(tbl, "lang_list", "语言列表"),
	)
	return root
}

func newMcheckCmd(cfg *mcslpconfig.Config, tbl *lang.Table, use, alias string) *cobra.Command {
	var noSRV bool
	var protocol string

	cmd := &cobra.Command{
		Use:     use + " <host>[:port]",
		Aliases: []string{alias},
		Args:    cobra.ExactArgs(1),
		Short:   "Probe a server and print its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			proto := status.All
			if protocol != "" {
				proto = status.SlpProtocol(strings.ToLower(protocol))
			}

			opts := orchestrator.Options{
				Timeout:             cfg.Timeout(),
				EnableSRV:           cfg.EnableSRV && !noSRV,
				Protocol:            proto,
				MaxConcurrentProbes: cfg.MaxConcurrentProbes,
			}

			r := resolve.New(cfg.DNSTimeout(), cfg.DNSRetries)
			results, err := orchestrator.Run(context.Background(), r, args[0], opts)
			if err != nil {
				return err
			}

			for _, er := range results {
				if err := printEndpoint(cmd, er, tbl, format.Mode(cfg.Type)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSRV, "no-srv", false, "disable SRV record resolution")
	cmd.Flags().StringVar(&protocol, "protocol", "", "probe exactly one protocol instead of the fallback chain")
	return cmd
}

func printEndpoint(cmd *cobra.Command, er orchestrator.EndpointResult, tbl *lang.Table, mode format.Mode) error {
	fmt.Fprintf(cmd.OutOrStdout(), "=== %s:%d (%s) ===\n", er.Target.IP, er.Target.Port, er.Target.Kind)

	out, err := format.Render(er.Java, tbl, mode)
	if err != nil {
		return err
	}
	writeRendered(cmd, out)

	if er.Bedrock.ConnectionStatus != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "--- bedrock ---")
		out, err := format.Render(er.Bedrock, tbl, mode)
		if err != nil {
			return err
		}
		writeRendered(cmd, out)
	}
	return nil
}

func writeRendered(cmd *cobra.Command, out interface{}) {
	switch v := out.(type) {
	case format.PlainResult:
		fmt.Fprint(cmd.OutOrStdout(), v.Text)
	case format.Structured:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
}

func newSetLangCmd(tbl *lang.Table, use, alias string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <code>",
		Aliases: []string{alias},
		Args:    cobra.ExactArgs(1),
		Short:   "Switch the active locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			switch tbl.SetLang(code) {
			case lang.SetLangUnknown:
				fmt.Fprintf(cmd.OutOrStdout(), "No language named '%s'\n", code)
			case lang.SetLangUnchanged:
				fmt.Fprintf(cmd.OutOrStdout(), "The language is already '%s'\n", code)
			case lang.SetLangChanged:
				fmt.Fprintf(cmd.OutOrStdout(), "Change to '%s' success\n", code)
			}
			return nil
		},
	}
}

func newLangNowCmd(tbl *lang.Table, use, alias string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Args:    cobra.NoArgs,
		Short:   "Print the current locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Current())
			return nil
		},
	}
}

func newLangListCmd(tbl *lang.Table, use, alias string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Args:    cobra.NoArgs,
		Short:   "List every known locale key",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range tbl.List() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

