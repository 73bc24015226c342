package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bowling/internal/domain"
)

var (
	// Global flags
	verbose bool

	// Score flags
	showFrames bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bowling",
	Short: "Ten-pin bowling score calculator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var scoreCmd = &cobra.Command{
	Use:   "score [pins...]",
	Short: "Score a complete game from its rolls",
	Long: `Scores a game from the pinfall of every ball, in the order rolled.
Rolls are read from the arguments, or from stdin when none are given.

Example:
  bowling score 10 10 10 10 10 10 10 10 10 10 10 10
  echo "5 5 5 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0" | bowling score --frames`,
	RunE: runScore,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	scoreCmd.Flags().BoolVar(&showFrames, "frames", false, "Print the frame-by-frame breakdown")

	rootCmd.AddCommand(scoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	fields := args
	if len(fields) == 0 {
		var err error
		fields, err = readFields(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	rolls, err := parseRolls(fields)
	if err != nil {
		return err
	}
	logger.Debug("parsed rolls", zap.Int("count", len(rolls)))

	scorer := domain.NewScorer()
	for _, r := range rolls {
		scorer.Record(r)
	}

	out := cmd.OutOrStdout()
	if showFrames {
		frames, err := domain.Frames(scorer.Rolls())
		printFrames(out, frames)
		if err != nil {
			return err
		}
	}

	score, err := scorer.Score()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, score)
	return nil
}

func readFields(r io.Reader) ([]string, error) {
	var fields []string

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		fields = append(fields, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rolls: %w", err)
	}

	return fields, nil
}

func parseRolls(fields []string) ([]domain.Roll, error) {
	rolls := make([]domain.Roll, 0, len(fields))
	for i, f := range fields {
		pins, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("roll %d: %q is not an integer", i+1, f)
		}
		rolls = append(rolls, domain.Roll(pins))
	}
	return rolls, nil
}

func printFrames(w io.Writer, frames []domain.Frame) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tKIND\tBALLS\tBONUS\tPOINTS\tTOTAL")
	for _, f := range frames {
		balls := strconv.Itoa(int(f.First))
		if f.Second != nil {
			balls += " " + strconv.Itoa(int(*f.Second))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%d\t%d\n", f.Number, f.Kind, balls, f.Bonus, f.Points, f.Total)
	}
	tw.Flush()
}
