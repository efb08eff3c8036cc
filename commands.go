package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lazyvibe/ghopen/internal/app"
	"github.com/lazyvibe/ghopen/internal/checkout"
	"github.com/lazyvibe/ghopen/internal/deeplink"
	"github.com/lazyvibe/ghopen/internal/git"
	"github.com/lazyvibe/ghopen/internal/handler"
	"github.com/lazyvibe/ghopen/internal/locator"
	"github.com/lazyvibe/ghopen/internal/notify"
	"github.com/lazyvibe/ghopen/internal/picker"
	"github.com/lazyvibe/ghopen/internal/register"
	"github.com/lazyvibe/ghopen/internal/store"
)

// launcher holds the collaborators shared by the commands.
type launcher struct {
	config  *app.Config
	log     zerolog.Logger
	store   *store.JSONStore
	locator *locator.Locator
	closers []io.Closer
}

func openRuntime(cmd *cobra.Command) (*launcher, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	configDir, err := app.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config directory: %w", err)
	}

	config, err := app.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := app.NewLogger(configDir, config.LogLevel, verbose)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	s, err := store.NewJSONStore(configDir)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	recent := make([]string, 0)
	if repos, err := s.List(cmd.Context()); err == nil {
		for _, r := range repos {
			recent = append(recent, filepath.Dir(r.Path))
		}
	}

	p := picker.New(picker.Options{
		Mode:        config.Picker,
		SearchRoots: config.SearchRoots,
		MaxDepth:    config.SearchDepth,
		RecentPaths: recent,
	})

	return &launcher{
		config:  config,
		log:     log,
		store:   s,
		locator: locator.New(s, p, log),
		closers: []io.Closer{s, logFile},
	}, nil
}

func (r *launcher) Close() {
	for _, c := range r.closers {
		_ = c.Close()
	}
}

func (r *launcher) handler() *handler.Handler {
	engine := git.NewCLI(r.config.ResolveGitPath())
	runner := checkout.NewOrchestrator(r.locator, engine, r.config.HostPrefixes, r.log)
	notifier := notify.NewDispatcher(r.config.Notification, r.log)

	return handler.New(runner, r.locator, engine, notifier, handler.Config{
		HostPrefixes: r.config.HostPrefixes,
		Timeout:      r.config.Timeout(),
	}, r.log)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ghopen [uri]",
		Short:         "Open x-github-client:// links in local clones",
		Long:          appName + " checks out the branch or pull request named by an x-github-client:// link\nin your local clone of the repository, asking once where that clone lives.",
		Version:       appVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runHandle(cmd, args[0])
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Also log to stderr")

	root.AddCommand(
		newHandleCmd(),
		newParseCmd(),
		newRegisterCmd(),
		newReposCmd(),
	)
	return root
}

func newHandleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handle <uri>",
		Short: "Handle an x-github-client:// URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandle(cmd, args[0])
		},
	}
}

func runHandle(cmd *cobra.Command, uri string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	return rt.handler().Handle(cmd.Context(), uri)
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <uri>",
		Short: "Show the action a URI resolves to without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical, _ := cmd.Flags().GetBool("canonical")

			action := deeplink.Parse(args[0])
			if canonical {
				fmt.Fprintln(cmd.OutOrStdout(), deeplink.Build(action))
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"action": action.Name(),
				"fields": action,
			})
		},
	}
	cmd.Flags().Bool("canonical", false, "Print the URI rebuilt from the parsed action")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register ghopen as the x-github-client:// handler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			skip, _ := cmd.Flags().GetBool("no-default")

			binary, err := os.Executable()
			if err != nil {
				return err
			}
			if resolved, err := filepath.EvalSymlinks(binary); err == nil {
				binary = resolved
			}

			path, err := register.Register(register.Options{Binary: binary, SkipXDGMime: skip})
			if errors.Is(err, register.ErrUnsupportedPlatform) {
				return fmt.Errorf("%w; associate %s with %s manually", err, deeplink.Scheme, binary)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", register.MimeType, path)
			return nil
		},
	}
	cmd.Flags().Bool("no-default", false, "Write the desktop entry without making it the default handler")
	return cmd
}

func newReposCmd() *cobra.Command {
	repos := &cobra.Command{
		Use:   "repos",
		Short: "Manage remembered local clones",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List remembered clones",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			all, err := rt.store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Repository", "Path", "Last Used"})
			table.SetAutoWrapText(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetTablePadding(" ")
			table.SetNoWhiteSpace(true)

			for _, r := range all {
				table.Append([]string{
					r.DisplayName(),
					r.Path,
					time.Unix(r.LastUsed, 0).Format(time.DateTime),
				})
			}
			table.Render()
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <identity> <path>",
		Short: "Remember the local clone of a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			path := picker.ExpandPath(args[1])
			if !picker.IsDirectory(path) {
				return fmt.Errorf("not a directory: %s", path)
			}
			identity := checkout.RepositoryIdentity(args[0], rt.config.HostPrefixes)
			return rt.locator.Remember(cmd.Context(), identity, path)
		},
	}

	forget := &cobra.Command{
		Use:     "forget <identity>",
		Aliases: []string{"rm"},
		Short:   "Forget the local clone of a repository",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			identity := checkout.RepositoryIdentity(args[0], rt.config.HostPrefixes)
			if err := rt.locator.Forget(cmd.Context(), identity); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no clone remembered for %s", identity)
				}
				return err
			}
			return nil
		},
	}

	repos.AddCommand(list, add, forget)
	return repos
}
