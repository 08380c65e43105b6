package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/wellness"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/tokens"
	"github.com/Boltflix/oh-my-freud-backend/pkg/logger"
)

func interpretCmd() *cobra.Command {
	var (
		text    string
		title   string
		lang    string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "interpret",
		Short: "Interpret a dream and print the response JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := commandLogger(cmd)
			svc, err := buildInterpreter(cfg, offline, log)
			if err != nil {
				return err
			}
			body, err := svc.Interpret(cmd.Context(), interpretation.Request{Text: text, Title: title, Lang: lang})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Dream text")
	cmd.Flags().StringVar(&title, "title", "", "Optional dream title")
	cmd.Flags().StringVar(&lang, "lang", "", "Language hint (pt, en-US, es, fr)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the model and serve the fallback catalog")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the fallback catalogs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify every catalog entry satisfies the configured thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return checkCatalogs(cmd.OutOrStdout(), cfg)
		},
	})
	return cmd
}

func langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang <hint>",
		Short: "Print the supported language a hint normalizes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lang := locale.Normalize(args[0], cfg.Interpretation.Language())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lang, lang.DisplayName())
			return nil
		},
	}
}

func buildInterpreter(cfg *config.Config, offline bool, log *slog.Logger) (interpretation.Service, error) {
	var chat completion.ChatClient
	if !offline && strings.TrimSpace(cfg.LLM.APIKey) != "" {
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		chat = client
	}
	completer := completion.NewCompleter(completion.Config{
		Models:      cfg.LLM.Models(),
		Deadline:    cfg.LLM.Deadline,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, chat, tokens.NewEstimator(cfg.LLM.Model, log), log)

	catalog, err := interpretation.LoadCatalog(cfg.Interpretation.Language())
	if err != nil {
		return nil, err
	}
	return interpretation.NewService(cfg.InterpretationPipeline(), completer, catalog, log)
}

func checkCatalogs(out io.Writer, cfg *config.Config) error {
	lang := cfg.Interpretation.Language()
	dreams, err := interpretation.LoadCatalog(lang)
	if err != nil {
		return err
	}
	th := cfg.InterpretationPipeline().Thresholds
	if err := dreams.Validate(th); err != nil {
		return fmt.Errorf("interpretation catalog: %w", err)
	}
	for _, l := range dreams.Languages() {
		fmt.Fprintf(out, "interpretation %s ok\n", l)
	}

	kits, err := wellness.LoadCatalog(lang)
	if err != nil {
		return err
	}
	if err := kits.Validate(wellness.DefaultLimits); err != nil {
		return fmt.Errorf("wellness catalog: %w", err)
	}
	fmt.Fprintln(out, "wellness ok")
	return nil
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewWithWriter(cmd.ErrOrStderr(), level)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
