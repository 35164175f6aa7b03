package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chemsolver/internal/catalog"
	"chemsolver/pkg/leveling"
	"chemsolver/pkg/quiz"
)

type quizOptions struct {
	seed    uint64
	untimed bool
	now     func() time.Time
}

func newQuizCmd() *cobra.Command {
	opts := quizOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "quiz <mode>",
		Short: "Play a challenge in the terminal",
		Long: "Play a 10-question challenge. Answer with the option number or its text.\n" +
			"Timed games start with 60 seconds: +2s per correct answer, -5s per wrong one.",
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			var ids []string
			for _, m := range quiz.Modes() {
				ids = append(ids, string(m.ID))
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := quiz.ParseMode(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = rand.Uint64()
			}
			return playQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), mode, opts)
		},
	}
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (same seed, same questions)")
	cmd.Flags().BoolVar(&opts.untimed, "untimed", false, "Disable the game clock")
	return cmd
}

func playQuiz(in io.Reader, out io.Writer, mode quiz.Mode, opts quizOptions) error {
	data := catalog.MustLoad()
	questions, err := quiz.NewGenerator(data.Elements(), data.Topics(catalog.TopicFilter{}), opts.seed).Generate(mode)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	remaining := quiz.GameDuration
	last := opts.now()
	var answers []quiz.Answer

	for i, q := range questions {
		if !opts.untimed {
			fmt.Fprintf(out, "\n[%ds left] ", remaining)
		} else {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Q%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			break
		}
		selected := pickOption(q, scanner.Text())
		answers = append(answers, quiz.Answer{QuestionID: q.ID, Selected: selected})
		correct := selected == q.CorrectAnswer

		if correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong, the answer is %s\n", q.CorrectAnswer)
		}

		if opts.untimed {
			continue
		}
		now := opts.now()
		remaining -= int(now.Sub(last) / time.Second)
		last = now
		if remaining <= 0 {
			fmt.Fprintln(out, "Time's up!")
			break
		}
		remaining = quiz.AdjustTime(remaining, correct)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	res := quiz.Score(questions, answers)
	fmt.Fprintf(out, "\nScore: %d (%d/%d correct), +%d XP\n", res.Score, res.Correct, res.Total, res.XPAwarded)
	info := leveling.FromXP(res.XPAwarded)
	fmt.Fprintf(out, "That alone would put a new player at level %d (%s).\n", info.Level, leveling.RankFor(info.Level).Title)
	if res.PromptReview {
		fmt.Fprintln(out, "Nice run!")
	}
	return nil
}

// pickOption 接受選項文字 (不分大小寫) 或選項編號。原子序題目的選項本身就是數字，所以先比對文字。
func pickOption(q quiz.Question, input string) string {
	input = strings.TrimSpace(input)
	for _, opt := range q.Options {
		if strings.EqualFold(opt, input) {
			return opt
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return input
}
