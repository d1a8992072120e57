// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/mdhender/ccmsg"
	store "github.com/mdhender/ccmsg/stores/sqlite"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "ccmsg",
		Short: "Conventional Commits message parser",
		Long:  `Parse commit messages written in the Conventional Commits format.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("ccmsg: version %q\n", ccmsg.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse())
	cmdRoot.AddCommand(cmdHistory())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func cmdParse() *cobra.Command {
	format := "tree"
	var dbPath string
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record the result in the history database")
		cmd.Flags().StringVarP(&format, "format", "f", format, "output format: tree, json or commit")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save parse to file")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "parse [commit-message-file]",
		Short:        "parse a commit message from a file or stdin",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			debug, _ := cmd.Flags().GetBool("debug")

			if format != "tree" && format != "json" && format != "commit" {
				return fmt.Errorf("error: --format must be tree, json or commit")
			}

			name := "<stdin>"
			var input []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				name = args[0]
				input, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			text := string(input)

			var options []ccmsg.Option
			if debug {
				options = append(options, ccmsg.WithLogger(slog.Default()))
			}
			msg, perr := ccmsg.Parse(text, options...)

			var db *store.SQLiteStore
			if dbPath != "" {
				if db, err = store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath}); err != nil {
					return err
				}
				defer db.Close()
			}

			if perr != nil {
				if diag, ok := ccmsg.DiagnosticFromError(perr); ok {
					ccmsg.PrintDiagnostic(cmd.ErrOrStderr(), diag, name, ccmsg.Trim(text))
					// the diagnostic already reports the failure
					cmd.SilenceErrors = true
				}
				if db != nil {
					if _, err := db.SaveFailure(context.Background(), text, perr); err != nil {
						log.Printf("%s: history: %v\n", name, err)
					}
				}
				return perr
			}

			commit, err := ccmsg.BuildCommit(msg)
			if err != nil {
				return err
			}
			if db != nil {
				id, err := db.SaveCommit(context.Background(), text, commit)
				if err != nil {
					return err
				} else if !quiet {
					log.Printf("%s: recorded as %d\n", name, id)
				}
			}

			var data []byte
			switch format {
			case "tree":
				buf := &bytes.Buffer{}
				printTree(buf, msg, 0)
				data = buf.Bytes()
			case "json":
				if data, err = json.MarshalIndent(msg, "", "  "); err != nil {
					return err
				}
				data = append(data, '\n')
			case "commit":
				if data, err = json.MarshalIndent(commit, "", "  "); err != nil {
					return err
				}
				data = append(data, '\n')
			}

			if outputFile == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			} else if err = os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			} else if !quiet {
				log.Printf("%s: wrote %d bytes\n", outputFile, len(data))
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdHistory() *cobra.Command {
	var dbPath string
	limit := 20
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the history database")
		cmd.Flags().IntVar(&limit, "limit", limit, "number of messages to list (0 for all)")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "history",
		Short:        "list recorded commit messages",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.ListCommits(ctx, limit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				breaking := ""
				if rec.Commit.Breaking {
					breaking = "!"
				}
				scope := ""
				if rec.Commit.Scope != "" {
					scope = "(" + rec.Commit.Scope + ")"
				}
				fmt.Printf("%6d %s %s%s%s: %s (%d footers)\n",
					rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.Commit.Type, scope, breaking, rec.Commit.Description, len(rec.Commit.Footers))
			}

			failures, err := db.CountFailures(ctx, "")
			if err != nil {
				return err
			} else if failures != 0 {
				fmt.Printf("%d messages failed to parse\n", failures)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdInitDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "init-db <path>",
		Short:        "create a new history database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("%s: created database\n", args[0])
			return nil
		},
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(ccmsg.Version().String())
				return nil
			}
			fmt.Println(ccmsg.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
