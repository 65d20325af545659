package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/stats"
	"github.com/spigell/resume-screener/internal/validation"
)

const (
	PromptReport              = "Report by score"
	PromptDumpToFile          = "Dump results to file"
	PromptExportEmails        = "Export emails"
	PromptStatistics          = "Show statistics"
	PromptAppendToExcludeFile = "Append all resumes to exclude file"
	PromptExit                = "Exit"

	topTerms = 10
)

var errExit = errors.New("exit requested")

var screenCmd = &cobra.Command{
	Use:   "screen [paths...]",
	Short: "Screen resume files, directories or zip archives",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu, print the report and exit")
	screenCmd.Flags().StringP("exclude-file", "e", "", "special file with already reviewed resumes to exclude. Default is unset.")
	screenCmd.Flags().String("title", "", "job title")
	screenCmd.Flags().String("skills", "", "comma separated required skills")
	screenCmd.Flags().String("languages", "", "comma separated required languages")
	screenCmd.Flags().String("min-skills", "", "matched skills needed for full skills score")
	screenCmd.Flags().String("min-languages", "", "matched languages needed for full languages score")
	screenCmd.Flags().Bool("bonus", false, "enable bonus keywords")
	screenCmd.Flags().Bool("ats", false, "enable ATS keyword check")
	screenCmd.Flags().Float64("min-score", 0, "drop resumes with a lower final score")

	viper.BindPFlag("exclude-file", screenCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("job.title", screenCmd.Flags().Lookup("title"))
	viper.BindPFlag("job.skills", screenCmd.Flags().Lookup("skills"))
	viper.BindPFlag("job.languages", screenCmd.Flags().Lookup("languages"))
	viper.BindPFlag("job.min-skills", screenCmd.Flags().Lookup("min-skills"))
	viper.BindPFlag("job.min-languages", screenCmd.Flags().Lookup("min-languages"))
	viper.BindPFlag("job.bonus", screenCmd.Flags().Lookup("bonus"))
	viper.BindPFlag("job.ats", screenCmd.Flags().Lookup("ats"))
	viper.BindPFlag("filters.minimum-score", screenCmd.Flags().Lookup("min-score"))
}

func screen(cmd *cobra.Command, paths []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	extractor := extract.New(logger)

	files, err := collectFiles(extractor, paths)
	if err != nil {
		logger.Fatal("collecting files", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Info("exiting", zap.String("reason", "no supported files found"))
		return
	}

	recognizer, _, err := newCollaborators(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai collaborators", zap.Error(err))
	}

	screener := screening.New(extractor, screening.Options{
		Recognizer:  recognizer,
		Concurrency: config.Concurrency,
		Logger:      logger,
	})

	outcomes, err := screener.Screen(ctx, config.Job, files)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	steps := filtering.Default(&config.Filters)
	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("filter", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	outcomes, err = filtering.Run(ctx, &config.Filters, filtering.Deps{Logger: logger}, steps, outcomes)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if outcomes.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		printReport(logger, outcomes)
		return
	}

	items := []string{PromptReport, PromptDumpToFile, PromptExportEmails, PromptStatistics}
	if config.Filters.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	prompt := promptui.Select{
		Label: "What next?",
		Items: append(items, PromptExit),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of resumes", zap.Int("count", outcomes.Len()))

		if err := handleAction(action, logger, config, outcomes); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, outcomes *screening.Outcomes) error {
	switch action {
	case PromptReport:
		printReport(logger, outcomes)
		return nil
	case PromptDumpToFile:
		filename, err := outcomes.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExportEmails:
		filename, err := exportEmails(outcomes)
		if err != nil {
			return fmt.Errorf("export emails: %w", err)
		}
		logger.Info("exported emails", zap.String("filename", filename))
		return nil
	case PromptStatistics:
		counts := stats.Aggregate(outcomes.Texts())
		logger.Info("corpus statistics",
			zap.Int("documents", counts.Documents),
			zap.Strings("top_skills", stats.Top(counts.Skills, topTerms)),
			zap.Strings("top_programming_languages", stats.Top(counts.ProgrammingLanguages, topTerms)),
			zap.Strings("top_soft_skills", stats.Top(counts.SoftSkills, topTerms)),
			zap.Strings("top_buzzwords", stats.Top(counts.Buzzwords, topTerms)),
			zap.Any("length_histogram", counts.LengthHistogram),
		)
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.Filters.ExcludeFile, outcomes)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printReport(logger *zap.Logger, outcomes *screening.Outcomes) {
	pretty, _ := json.MarshalIndent(outcomes.Report(), "", "  ")
	logger.Info(string(pretty), zap.Int("resumes count", outcomes.Len()))
}

func appendToExcludeFile(logger *zap.Logger, path string, outcomes *screening.Outcomes) error {
	excluded, err := screening.GetExcludedResumesFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		excluded, err = &screening.ExcludedResumes{}, nil
	}
	if err != nil {
		return err
	}

	excluded.Append(outcomes.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("entries", len(excluded.Items)))
	return nil
}

func exportEmails(outcomes *screening.Outcomes) (string, error) {
	file, err := os.CreateTemp("", "emails_*.txt")
	if err != nil {
		return "", err
	}
	defer file.Close()

	emails := validation.UniqueEmails(outcomes.Validations()...)
	if len(emails) == 0 {
		return file.Name(), nil
	}
	if _, err := file.WriteString(strings.Join(emails, "\n") + "\n"); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// collectFiles reads every path. Directories are walked recursively and only
// files the extractor understands, plus zip archives, are picked up from them.
// Files named explicitly are always read so that unsupported ones show up as
// failed outcomes.
func collectFiles(extractor *extract.Extractor, paths []string) ([]extract.File, error) {
	var files []extract.File

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			data, err := os.ReadFile(root)
			if err != nil {
				return nil, err
			}
			files = append(files, extract.File{Name: filepath.Base(root), Data: data})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !extractor.Supported(path) && !strings.EqualFold(filepath.Ext(path), ".zip") {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			files = append(files, extract.File{Name: filepath.ToSlash(rel), Data: data})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
