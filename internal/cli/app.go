package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"studyhub/internal/quiz"
)

const maxAttempts = 3

var errQuit = errors.New("quit")

// Run drives the interactive menu until the user quits or input ends.
func Run(ctx context.Context, driver Driver, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Software Engineer Study Hub")
	printHelp(out)

	for {
		line, err := prompt(reader, out, "\n> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		switch strings.ToLower(args[0]) {
		case "help":
			printHelp(out)
		case "quit", "exit":
			return nil
		case "tests":
			if err := listTests(ctx, driver, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "study":
			if err := listTopics(ctx, driver, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "take":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: take <number|test_id>")
				continue
			}
			testID, err := resolveTest(ctx, driver, args[1])
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			err = playTest(ctx, driver, reader, out, testID)
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintf(out, "unknown command %q\n", args[0])
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  tests                  list practice tests")
	fmt.Fprintln(out, "  take <number|test_id>  start a test")
	fmt.Fprintln(out, "  study                  list study topics")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  quit")
}

func printTestHelp(out io.Writer) {
	fmt.Fprintln(out, "Answer with A-D, t/f or free text. Ordering: m <from> <to>, s to shuffle.")
	fmt.Fprintln(out, "/n next, /p previous, /f finish, /b back to tests, /q quit.")
}

func listTests(ctx context.Context, driver Driver, out io.Writer) error {
	tests, err := driver.ListTests(ctx)
	if err != nil {
		return err
	}
	for idx, test := range tests {
		status := ""
		if !test.Available() {
			status = " (coming soon)"
		}
		fmt.Fprintf(out, "%d. %s [%s, %s, %d questions]%s\n",
			idx+1, test.Title, test.Difficulty, test.Duration, test.QuestionCount, status)
		if test.Description != "" {
			fmt.Fprintf(out, "   %s\n", test.Description)
		}
	}
	return nil
}

func listTopics(ctx context.Context, driver Driver, out io.Writer) error {
	topics, err := driver.ListTopics(ctx)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Fprintln(out, "No study topics.")
		return nil
	}
	for _, topic := range topics {
		fmt.Fprintf(out, "- %s [%s]: %s\n", topic.Title, topic.Difficulty, topic.Description)
		if len(topic.Subtopics) > 0 {
			fmt.Fprintf(out, "  %s\n", strings.Join(topic.Subtopics, ", "))
		}
	}
	return nil
}

func resolveTest(ctx context.Context, driver Driver, arg string) (string, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	tests, err := driver.ListTests(ctx)
	if err != nil {
		return "", err
	}
	if number < 1 || number > len(tests) {
		return "", fmt.Errorf("test number must be 1-%d", len(tests))
	}
	return tests[number-1].ID, nil
}

func playTest(ctx context.Context, driver Driver, reader *bufio.Reader, out io.Writer, testID string) error {
	view, err := driver.Start(ctx, testID)
	if err != nil {
		return err
	}
	if view.Phase == quiz.PhaseUnavailable {
		fmt.Fprintln(out, "Test Not Available Yet")
		fmt.Fprintln(out, "This test is being prepared. Check back soon or pick another one.")
		return driver.Exit(ctx)
	}

	printTestHelp(out)
	invalid := 0
	shown := -1

	for {
		if view.Question == nil {
			return fmt.Errorf("no question to show in phase %s", view.Phase)
		}
		if view.Cursor != shown {
			printQuestion(out, view)
			shown = view.Cursor
			invalid = 0
		}

		line, err := prompt(reader, out, "answer> ")
		if err != nil {
			return err
		}

		args := strings.Fields(line)
		command := ""
		if len(args) > 0 {
			command = strings.ToLower(args[0])
		}

		var next quiz.View
		switch {
		case command == "/n":
			next, err = driver.Advance(ctx)
		case command == "/p":
			next, err = driver.Retreat(ctx)
		case command == "/b":
			return driver.Exit(ctx)
		case command == "/q":
			_ = driver.Exit(ctx)
			return errQuit
		case command == "/f":
			report, err := driver.Finish(ctx)
			if err != nil {
				return err
			}
			printReport(out, report)
			next, err = afterResults(ctx, driver, reader, out)
			if err != nil {
				return err
			}
			if next.Phase != quiz.PhaseInProgress {
				return nil
			}
			shown = -1
		case view.Question.Kind == quiz.KindOrderedSequence && command == "m":
			from, to, parseErr := parseMove(args, len(view.Question.Items))
			if parseErr != nil {
				err = parseErr
				break
			}
			next, err = driver.Move(ctx, view.Question.ID, from, to)
		case view.Question.Kind == quiz.KindOrderedSequence && command == "s":
			next, err = driver.Shuffle(ctx, view.Question.ID)
		default:
			answer, parseErr := parseAnswer(*view.Question, line)
			if parseErr != nil {
				err = parseErr
				break
			}
			next, err = driver.Record(ctx, view.Question.ID, answer)
		}

		if errors.Is(err, errInvalidInput) {
			invalid++
			if invalid < maxAttempts {
				fmt.Fprintf(out, "Invalid input. %s\n", strings.TrimPrefix(err.Error(), errInvalidInput.Error()+": "))
				continue
			}
			fmt.Fprintln(out, "Too many invalid answers, moving on.")
			next, err = driver.Advance(ctx)
			shown = -1
		}
		if err != nil {
			return err
		}

		if next.Cursor == view.Cursor && next.Phase == view.Phase && shown >= 0 {
			if command == "/n" || command == "/p" {
				fmt.Fprintln(out, "No more questions in that direction.")
			} else {
				printAnswerLine(out, next)
			}
		}
		view = next
	}
}

// afterResults asks what to do once results are shown. It returns the view
// of a retaken test, or a zero view when the user goes back.
func afterResults(ctx context.Context, driver Driver, reader *bufio.Reader, out io.Writer) (quiz.View, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := prompt(reader, out, "r retake, b back to tests, q quit> ")
		if err != nil {
			return quiz.View{}, err
		}
		switch strings.ToLower(line) {
		case "r":
			return driver.Retake(ctx)
		case "b":
			return quiz.View{}, driver.Exit(ctx)
		case "q":
			_ = driver.Exit(ctx)
			return quiz.View{}, errQuit
		}
		if attempt < maxAttempts {
			fmt.Fprintln(out, "Please enter r, b or q.")
		}
	}
	return quiz.View{}, driver.Exit(ctx)
}

func printQuestion(out io.Writer, view quiz.View) {
	question := view.Question
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Question %d of %d (%d answered)\n", view.Cursor+1, view.Total, view.Answered)
	fmt.Fprintf(out, "%s\n\n", question.Prompt)

	switch question.Kind {
	case quiz.KindSingleSelect:
		for idx, option := range question.Options {
			fmt.Fprintf(out, "%c. %s\n", 'A'+idx, option)
		}
	case quiz.KindBoolean:
		fmt.Fprintln(out, "t. True")
		fmt.Fprintln(out, "f. False")
	case quiz.KindExactText:
		fmt.Fprintln(out, "Type your answer.")
	case quiz.KindOrderedSequence:
		printOrder(out, view.Order())
	}
	printAnswerLine(out, view)
}

func printOrder(out io.Writer, order []string) {
	for idx, item := range order {
		fmt.Fprintf(out, "%d. %s\n", idx+1, item)
	}
}

func printAnswerLine(out io.Writer, view quiz.View) {
	if view.Question == nil || view.Answer == nil {
		return
	}
	answer, err := quiz.DecodeAnswer(*view.Answer)
	if err != nil {
		return
	}
	if view.Question.Kind == quiz.KindOrderedSequence {
		fmt.Fprintln(out, "Current order:")
		printOrder(out, view.Order())
		return
	}
	fmt.Fprintf(out, "Your answer: %s\n", quiz.FormatAnswer(quiz.Question{PublicQuestion: *view.Question}, answer))
}

func printReport(out io.Writer, report quiz.Report) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %d%%\n", report.Score.Percentage)
	fmt.Fprintf(out, "%d out of %d questions correct\n", report.Score.Correct, report.Score.Total)

	for _, outcome := range report.Outcomes {
		verdict := "Incorrect"
		if outcome.Correct {
			verdict = "Correct"
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d. %s [%s]\n", outcome.Number, outcome.Prompt, verdict)
		fmt.Fprintf(out, "   Your answer: %s\n", outcome.Given)
		fmt.Fprintf(out, "   Correct answer: %s\n", outcome.Expected)
		if outcome.Explanation != "" {
			fmt.Fprintf(out, "   Explanation: %s\n", outcome.Explanation)
		}
	}
	fmt.Fprintln(out)
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
