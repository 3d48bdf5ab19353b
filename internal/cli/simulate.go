package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/engine"
	"github.com/weftlabs/weft/internal/journal"
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
	"github.com/weftlabs/weft/internal/snapshot"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	JournalPath string
	Process     string
}

// SimulationReport is the result of running a snapshot through the
// engine.
type SimulationReport struct {
	Snapshot string         `json:"snapshot"`
	Session  string         `json:"session"`
	Modules  []ModuleReport `json:"modules"`
}

// ModuleReport covers one snapshot module.
type ModuleReport struct {
	ID       uint64         `json:"id"`
	Assembly string         `json:"assembly"`
	Prepared bool           `json:"prepared"`
	Methods  []MethodReport `json:"methods"`
}

// MethodReport covers one compiled method.
type MethodReport struct {
	Name        string   `json:"name"`
	Modified    bool     `json:"modified"`
	CallSites   int      `json:"call_sites_rewritten"`
	RewrittenTo []string `json:"rewritten_to,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <catalog-dir> <snapshot.yaml>",
		Short: "Run a module snapshot through the rewriting engine",
		Long: `Load a rule catalog and a YAML module snapshot, then drive the
snapshot through the full engine path: module load, wrapper reference
emission, and compilation of every method. Reports which call sites
were rewritten.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.JournalPath, "journal", "", "append engine decisions to this SQLite journal")
	cmd.Flags().StringVar(&opts.Process, "process", "weft-sim", "process name presented to the engine")

	return cmd
}

func runSimulate(rootOpts *RootOptions, opts *SimulateOptions, catalogDir, snapshotPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	result, loadErrors := rules.LoadCatalog(catalogDir)
	if len(loadErrors) > 0 {
		issue := toIssue(loadErrors[0])
		formatter.Error(issue.Code, issue.Message, nil)
		return NewExitError(ExitCommandError, issue.Message)
	}
	if verrs := rules.Validate(result.Integrations); len(verrs) > 0 {
		formatter.Error("V001", verrs[0].Error(), nil)
		return NewExitError(ExitCommandError, verrs[0].Error())
	}

	world, err := snapshot.Load(snapshotPath)
	if err != nil {
		formatter.Error(rules.ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	var engineOpts []engine.Option
	if opts.JournalPath != "" {
		j, err := journal.Open(opts.JournalPath)
		if err != nil {
			formatter.Error(rules.ErrCodeGeneric, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		defer j.Close()
		engineOpts = append(engineOpts, engine.WithJournal(j))
	}

	eng := engine.New(world, result.Integrations, engineOpts...)
	eng.Attach(opts.Process)

	report := runWorld(eng, world)
	if rootOpts.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprint(cmd.OutOrStdout(), RenderSimulation(report))
	return nil
}

// runWorld drives every snapshot module through load and compilation,
// diffing method bodies to report individual rewrites.
func runWorld(eng *engine.Engine, world *snapshot.World) SimulationReport {
	report := SimulationReport{Snapshot: world.Name, Session: eng.Session()}

	for _, mod := range world.Modules {
		eng.OnModuleLoaded(engine.ModuleID(mod.ID), mod.Assembly)
	}

	for _, mod := range world.Modules {
		_, prepared := eng.Registry().Lookup(engine.ModuleID(mod.ID))
		mr := ModuleReport{ID: mod.ID, Assembly: mod.Assembly, Prepared: prepared}

		for _, name := range mod.MethodNames() {
			typeName, methodName, _ := strings.Cut(name, ".")
			tok, _ := mod.MethodToken(typeName, methodName)

			before := mod.Methods[tok].Instructions()
			modified := eng.OnMethodAboutToCompile(engine.ModuleID(mod.ID), tok)
			after := mod.Methods[tok].Instructions()

			method := MethodReport{Name: name, Modified: modified}
			for i := range after {
				if after[i] == before[i] {
					continue
				}
				method.CallSites++
				method.RewrittenTo = append(method.RewrittenTo, describeOperand(mod.Scope, after[i].Operand))
			}
			mr.Methods = append(mr.Methods, method)
		}

		report.Modules = append(report.Modules, mr)
	}

	return report
}

// describeOperand renders a rewritten operand as the wrapper name it
// now points at.
func describeOperand(scope *metadata.Memory, tok metadata.Token) string {
	props, err := scope.MemberRef(tok)
	if err != nil {
		return tok.String()
	}
	typeName, err := scope.TypeRefName(props.Parent)
	if err != nil {
		return props.Name
	}
	return typeName + "." + props.Name
}

// RenderSimulation renders a simulation report as deterministic text.
func RenderSimulation(report SimulationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "snapshot: %s\n", report.Snapshot)
	for _, mod := range report.Modules {
		status := "skipped"
		if mod.Prepared {
			status = "prepared"
		}
		fmt.Fprintf(&b, "\nmodule %d (%s): %s\n", mod.ID, mod.Assembly, status)
		for _, m := range mod.Methods {
			if !m.Modified {
				fmt.Fprintf(&b, "  %s: unchanged\n", m.Name)
				continue
			}
			fmt.Fprintf(&b, "  %s: %d call site(s) rewritten\n", m.Name, m.CallSites)
			for _, target := range m.RewrittenTo {
				fmt.Fprintf(&b, "    -> %s\n", target)
			}
		}
	}
	return b.String()
}
