package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"secrag-tui/internal/app"
	"secrag-tui/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/jaivial/secrag"
)

func buildApp() (*app.Application, error) {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(app.DefaultLogPath())
	return app.NewApplication(cfg, logger)
}

func formatAnswer(res *app.AnswerResult) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(res.Answer))
	conf := app.ConfidenceFromScore(app.TopScore(res.Citations))
	fmt.Fprintf(&b, "\n\nConfidence: %s\n", conf.Label)
	if len(res.Citations) == 0 {
		return b.String()
	}
	b.WriteString("\nSources:\n")
	for _, c := range res.Citations {
		fmt.Fprintf(&b, "  chunk %-4d score %.3f  %s\n", c.ChunkID, c.Score, c.Preview(100))
	}
	return b.String()
}

func main() {
	root := &cobra.Command{
		Use:     "secrag",
		Short:   "SecRAG - terminal client for the SecRAG document QA service",
		Long:    "SecRAG is an interactive terminal client for a retrieval-augmented document QA backend.\n\nUse without arguments for the TUI, or with a subcommand for one-shot use.\n\nFor more information, visit: " + repoURL,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about a document",
		Long:  "Ask a one-shot question about an indexed document.\n\nExamples:\n  - secrag ask --doc paper.pdf \"What is the main finding?\"\n  - secrag ask --doc paper.pdf --mode semantic \"Who are the authors?\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			query := strings.TrimSpace(args[0])
			if query == "" {
				return fmt.Errorf("empty question")
			}
			mode := askMode
			if mode == "" {
				mode = application.Config.RetrievalMode
			}
			res, err := application.Client.Answer(context.Background(), app.AnswerRequest{
				Filename: askDoc,
				Query:    query,
				TopK:     application.Config.TopK,
				Mode:     mode,
				Alpha:    application.Config.Alpha,
			})
			if err != nil {
				return err
			}
			fmt.Print(formatAnswer(res))
			return nil
		},
	}
	askCmd.Flags().StringVarP(&askDoc, "doc", "d", "", "Document filename to ask about")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "Retrieval mode: hybrid|semantic|bm25")
	askCmd.MarkFlagRequired("doc")
	root.AddCommand(askCmd)

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			cfg := application.Config
			res, err := application.Client.Summarize(context.Background(), app.SummarizeRequest{
				Filename:        askDoc,
				IntroChunks:     cfg.IntroChunks,
				TopK:            cfg.TopK,
				MaxOutputTokens: cfg.MaxOutputTokens,
				Mode:            cfg.RetrievalMode,
				Alpha:           cfg.Alpha,
			})
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(res.Summary))
			return nil
		},
	}
	summarizeCmd.Flags().StringVarP(&askDoc, "doc", "d", "", "Document filename to summarize")
	summarizeCmd.MarkFlagRequired("doc")
	root.AddCommand(summarizeCmd)

	questionsCmd := &cobra.Command{
		Use:   "questions",
		Short: "Suggest sample questions for a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			cfg := application.Config
			qs, err := application.Client.SampleQuestions(context.Background(), app.SampleQuestionsRequest{
				Filename:        askDoc,
				IntroChunks:     cfg.IntroChunks,
				TopK:            cfg.TopK,
				MaxOutputTokens: cfg.MaxOutputTokens,
			})
			if err != nil {
				return err
			}
			for i, q := range qs {
				fmt.Printf("%d. %s\n", i+1, q)
			}
			return nil
		},
	}
	questionsCmd.Flags().StringVarP(&askDoc, "doc", "d", "", "Document filename")
	questionsCmd.MarkFlagRequired("doc")
	root.AddCommand(questionsCmd)

	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "List indexed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			docs, err := application.Client.ListDocs(context.Background())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("No documents indexed.")
				return nil
			}
			for _, d := range docs {
				fmt.Println(d)
			}
			return nil
		},
	}

	uploadCmd := &cobra.Command{
		Use:   "upload [path]",
		Short: "Upload a PDF for indexing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := application.Client.Upload(context.Background(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %s: %d chunks, %d-dim embeddings\n", res.Filename, res.TotalChunks, res.EmbeddingDim)
			return nil
		},
	}
	docsCmd.AddCommand(uploadCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete [filename]",
		Short: "Delete a document and its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !deleteYes {
				return fmt.Errorf("refusing to delete %q without --yes", args[0])
			}
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			res, err := application.Client.DeleteDocument(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %q: removed %d file(s)\n", args[0], len(res.Deleted))
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Confirm the deletion")
	docsCmd.AddCommand(deleteCmd)
	root.AddCommand(docsCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Logger.Sync()

			if err := application.Client.Health(context.Background()); err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Printf("ok: %s\n", application.Config.BaseURL)
			return nil
		},
	}
	root.AddCommand(healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	configPath string
	askDoc     string
	askMode    string
	deleteYes  bool
)
