package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/rules"
)

// CatalogDump is the JSON payload of the dump command.
type CatalogDump struct {
	Integrations []IntegrationDump `json:"integrations"`
}

// IntegrationDump is one integration with derived wrapper cache keys.
type IntegrationDump struct {
	Name  string     `json:"name"`
	Rules []RuleDump `json:"rules"`
}

// RuleDump is one method replacement in reportable form.
type RuleDump struct {
	CallerAssembly string `json:"caller_assembly,omitempty"`
	CallerType     string `json:"caller_type,omitempty"`
	CallerMethod   string `json:"caller_method,omitempty"`
	Target         string `json:"target"`
	Wrapper        string `json:"wrapper"`
	WrapperKey     string `json:"wrapper_key"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <catalog-dir>",
		Short: "Print a decoded rule catalog",
		Long: `Decode a CUE rule catalog and print it in canonical form,
including each wrapper's derived cache key. Useful for diffing catalogs
and debugging cache-key mismatches.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDump(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := rules.LoadCatalog(catalogDir)
	if len(loadErrors) > 0 {
		issue := toIssue(loadErrors[0])
		formatter.Error(issue.Code, issue.Message, nil)
		return NewExitError(ExitCommandError, issue.Message)
	}

	dump := buildCatalogDump(result.Integrations)
	if opts.Format == "json" {
		return formatter.Success(dump)
	}

	fmt.Fprint(cmd.OutOrStdout(), RenderCatalog(dump))
	return nil
}

func buildCatalogDump(integrations []rules.Integration) CatalogDump {
	dump := CatalogDump{}
	for _, integ := range integrations {
		id := IntegrationDump{Name: integ.Name}
		for _, mr := range integ.MethodReplacements {
			id.Rules = append(id.Rules, RuleDump{
				CallerAssembly: mr.Caller.Assembly,
				CallerType:     mr.Caller.Type,
				CallerMethod:   mr.Caller.Method,
				Target:         mr.Target.Type + "." + mr.Target.Method,
				Wrapper:        fmt.Sprintf("[%s] %s.%s %s", mr.Wrapper.Assembly.Name, mr.Wrapper.Type, mr.Wrapper.Method, mr.Wrapper.Signature),
				WrapperKey:     mr.Wrapper.CacheKey(),
			})
		}
		dump.Integrations = append(dump.Integrations, id)
	}
	return dump
}

// RenderCatalog renders a catalog dump as deterministic text, one rule
// per block, in catalog order.
func RenderCatalog(dump CatalogDump) string {
	var b strings.Builder
	fmt.Fprintf(&b, "catalog: %d integration(s)\n", len(dump.Integrations))
	for _, integ := range dump.Integrations {
		fmt.Fprintf(&b, "\nintegration %s\n", integ.Name)
		for i, rule := range integ.Rules {
			fmt.Fprintf(&b, "  rule %d:\n", i)
			fmt.Fprintf(&b, "    caller:  assembly=%s type=%s method=%s\n",
				orAny(rule.CallerAssembly), orAny(rule.CallerType), orAny(rule.CallerMethod))
			fmt.Fprintf(&b, "    target:  %s\n", rule.Target)
			fmt.Fprintf(&b, "    wrapper: %s\n", rule.Wrapper)
			fmt.Fprintf(&b, "    key:     %s\n", rule.WrapperKey)
		}
	}
	return b.String()
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
