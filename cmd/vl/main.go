package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"verbline/internal/config"
	"verbline/internal/db"
	"verbline/internal/domain"
	"verbline/internal/engine"
	"verbline/internal/migrate"
	"verbline/internal/repo"
	"verbline/internal/scaffold"
	"verbline/internal/server"
	"verbline/internal/sqlite"
	"verbline/internal/target"
	"verbline/internal/template"
)

const (
	exitValidation = 1
	exitIO         = 2
	exitCancelled  = 3
	exitInternal   = 4
)

// exitError carries a process exit code alongside the cause.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitErr(code int, err error) error {
	return &exitError{code: code, err: err}
}

var rootCmd = &cobra.Command{
	Use:   "vl",
	Short: "Verbline CLI",
	Long: `Verbline keeps a list of verbs (things to do) and scaffolds new projects.
Verbs flow captured -> active -> done, can pause, and can be dropped with a
reason; every change lands in an append-only action log. The 'new' command
generates a project skeleton from a template matching your language, kind,
framework, and architecture.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("VERBLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("templates", "", "extra template directory")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("templates", rootCmd.PersistentFlags().Lookup("templates"))
}

func registerCommands() {
	rootCmd.AddCommand(verbCmd())
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(serveCmd())
}

func verbCmd() *cobra.Command {
	verb := &cobra.Command{
		Use:   "verb",
		Short: "Manage verbs",
		Long:  "Verbs are things to do. They start captured, activate when you work on them, can pause, finish done, or get dropped with a reason. Every change is logged.",
	}
	verb.AddCommand(verbCreateCmd())
	verb.AddCommand(verbListCmd())
	verb.AddCommand(verbShowCmd())
	verb.AddCommand(verbStateCmd())
	verb.AddCommand(verbDropCmd())
	verb.AddCommand(verbLogsCmd())
	return verb
}

func verbCreateCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Capture a verb",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.CreateVerb(ctx, title, description)
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func verbListCmd() *cobra.Command {
	var state string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List verbs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				f := repo.VerbFilter{Limit: limit, Offset: offset}
				if state != "" {
					s, err := domain.ParseVerbState(state)
					if err != nil {
						return err
					}
					f.State = &s
				}
				verbs, total, err := e.ListVerbs(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"verbs": verbs, "total": total})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "State", "Updated"})
				for _, v := range verbs {
					tw.AppendRow(table.Row{v.ID, v.Title, v.State, v.UpdatedAt.Local().Format(time.RFC3339)})
				}
				tw.AppendFooter(table.Row{"", "", "total", total})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 50, max 500)")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	return cmd
}

func verbShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a verb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verb id %q", args[0])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.GetVerb(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	return cmd
}

func verbStateCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "state <id> <state>",
		Short: "Transition a verb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verb id %q", args[0])
			}
			next, err := domain.ParseVerbState(args[1])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.TransitionVerb(ctx, id, next, reason)
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason (required when pausing or dropping)")
	return cmd
}

func verbDropCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "drop <id>",
		Short: "Drop a verb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verb id %q", args[0])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.DropVerb(ctx, id, reason)
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the verb is dropped")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func verbLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs <id>",
		Short: "Show a verb's action log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid verb id %q", args[0])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				logs, err := e.LogsByVerb(ctx, id)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(logs)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Time", "Action", "From", "To", "Reason"})
				for _, l := range logs {
					from := ""
					if l.FromState != nil {
						from = l.FromState.String()
					}
					tw.AppendRow(table.Row{l.Timestamp.Local().Format(time.RFC3339), l.ActionType, from, l.ToState, l.Reason})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func templateCmd() *cobra.Command {
	tpl := &cobra.Command{
		Use:   "template",
		Short: "Inspect scaffolding templates",
	}
	tpl.AddCommand(templateListCmd())
	return tpl
}

func templateListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := template.DefaultStore(viper.GetString("templates"))
			if err != nil {
				return err
			}
			templates := store.All()
			if viper.GetBool("json") {
				return printJSON(templates)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Version", "Language", "Kind", "Framework", "Architecture"})
			for _, t := range templates {
				tw.AppendRow(table.Row{
					t.Metadata.Name,
					t.Metadata.Version,
					matcherField(t.Matcher.Language),
					matcherField(t.Matcher.Kind),
					frameworkField(t.Matcher.Framework),
					matcherField(t.Matcher.Architecture),
				})
			}
			tw.Render()
			return nil
		},
	}
	return cmd
}

func newCmd() *cobra.Command {
	var language, kind, framework, architecture, output string
	var force, dryRun, yes bool
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a project",
		Long:  "Generates a project skeleton from the best-matching template. Unset target fields are inferred from the language, e.g. 'vl new my-tool --language rust' scaffolds a layered Rust CLI.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return exitErr(exitValidation, fmt.Errorf("project name is required"))
			}
			tgt, err := buildTarget(cmd, language, kind, framework, architecture)
			if err != nil {
				return exitErr(exitValidation, err)
			}
			store, err := template.DefaultStore(viper.GetString("templates"))
			if err != nil {
				return exitErr(exitIO, err)
			}
			eng := scaffold.NewEngine(
				template.NewResolver(store),
				scaffold.Renderer{Logger: log.New(cmd.ErrOrStderr(), "", 0)},
				scaffold.NewWriter(scaffold.OSFilesystem{}),
			)
			opts := scaffold.Options{Name: name, Target: tgt, OutputDir: output, Force: force, DryRun: true}

			preview, err := eng.Scaffold(opts)
			if err != nil {
				return classifyScaffoldErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template %s -> %s (%d entries)\n", preview.Template.ID(), preview.Structure.Root, len(preview.Structure.Entries))
			for _, entry := range preview.Structure.Entries {
				fmt.Fprintln(cmd.OutOrStdout(), " ", entry.Path)
			}
			if dryRun {
				return nil
			}
			if !yes && !confirm(cmd, "Create project?") {
				return exitErr(exitCancelled, fmt.Errorf("aborted"))
			}
			opts.DryRun = false
			if _, err := eng.Scaffold(opts); err != nil {
				return classifyScaffoldErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", preview.Structure.Root)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "project language (rust, python, typescript, go)")
	cmd.Flags().StringVar(&kind, "kind", "", "project kind (cli, web-backend, web-frontend, fullstack, worker, library)")
	cmd.Flags().StringVar(&framework, "framework", "", "framework")
	cmd.Flags().StringVar(&architecture, "architecture", "", "architecture (layered, mvc, clean, feature-modular)")
	cmd.Flags().StringVar(&output, "output", ".", "output directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without writing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func buildTarget(cmd *cobra.Command, language, kind, framework, architecture string) (target.Target, error) {
	lang, err := target.ParseLanguage(language)
	if err != nil {
		return target.Target{}, err
	}
	b := target.NewBuilder().Language(lang)
	if cmd.Flags().Changed("kind") {
		k, err := target.ParseProjectKind(kind)
		if err != nil {
			return target.Target{}, err
		}
		b = b.Kind(k)
	}
	if cmd.Flags().Changed("framework") {
		f, err := target.ParseFramework(framework)
		if err != nil {
			return target.Target{}, err
		}
		b = b.Framework(f)
	}
	if cmd.Flags().Changed("architecture") {
		a, err := target.ParseArchitecture(architecture)
		if err != nil {
			return target.Target{}, err
		}
		b = b.Architecture(a)
	}
	return b.Build()
}

func classifyScaffoldErr(err error) error {
	var noMatch *template.NoMatchError
	var invalid *scaffold.InvalidTemplateError
	if errors.As(err, &noMatch) || errors.As(err, &invalid) {
		return exitErr(exitValidation, err)
	}
	var exists *scaffold.ProjectExistsError
	var write *scaffold.WriteError
	if errors.As(err, &exists) || errors.As(err, &write) {
		return exitErr(exitIO, err)
	}
	return exitErr(exitInternal, err)
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func serveCmd() *cobra.Command {
	var basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			workspace := viper.GetString("workspace")
			conn, err := db.Open(workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			e := engine.New(sqlite.New(conn))
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Addr(), Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Verbline API on http://%s%s (db %s, OpenAPI at /openapi.json, Swagger UI at /docs)\n", cfg.Addr(), basePath, db.Path(workspace))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&basePath, "base-path", "/api/v1", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	conn, err := db.Open(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, engine.New(sqlite.New(conn)))
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func matcherField[T ~string](v *T) string {
	if v == nil {
		return "*"
	}
	return string(*v)
}

func frameworkField(f *target.Framework) string {
	if f == nil {
		return "*"
	}
	if *f == "" {
		return "none"
	}
	return string(*f)
}
