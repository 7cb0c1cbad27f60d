package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"studyhub/internal/quiz"
)

var errInvalidInput = errors.New("invalid input")

// parseAnswer turns a typed line into an answer for question. Ordered
// questions are answered with move commands instead.
func parseAnswer(question quiz.PublicQuestion, input string) (quiz.Answer, error) {
	input = strings.TrimSpace(input)
	switch question.Kind {
	case quiz.KindSingleSelect:
		if len(input) != 1 || len(question.Options) == 0 {
			return nil, fmt.Errorf("%w: enter a letter A-%c", errInvalidInput, maxLetter(len(question.Options)))
		}
		letter := strings.ToUpper(input)[0]
		if letter < 'A' || letter > maxLetter(len(question.Options)) {
			return nil, fmt.Errorf("%w: enter a letter A-%c", errInvalidInput, maxLetter(len(question.Options)))
		}
		return quiz.SingleSelect(int(letter - 'A')), nil
	case quiz.KindBoolean:
		switch strings.ToLower(input) {
		case "t", "true":
			return quiz.Boolean(true), nil
		case "f", "false":
			return quiz.Boolean(false), nil
		}
		return nil, fmt.Errorf("%w: enter t or f", errInvalidInput)
	case quiz.KindExactText:
		if input == "" {
			return nil, fmt.Errorf("%w: type an answer", errInvalidInput)
		}
		return quiz.Text(input), nil
	}
	return nil, fmt.Errorf("%w: use m <from> <to> or s", errInvalidInput)
}

// parseMove reads "m <from> <to>" with 1-based positions.
func parseMove(args []string, count int) (int, int, error) {
	if len(args) != 3 {
		return 0, 0, fmt.Errorf("%w: usage m <from> <to>", errInvalidInput)
	}
	from, err := strconv.Atoi(args[1])
	if err != nil || from < 1 || from > count {
		return 0, 0, fmt.Errorf("%w: positions are 1-%d", errInvalidInput, count)
	}
	to, err := strconv.Atoi(args[2])
	if err != nil || to < 1 || to > count {
		return 0, 0, fmt.Errorf("%w: positions are 1-%d", errInvalidInput, count)
	}
	return from - 1, to - 1, nil
}

func maxLetter(optionCount int) byte {
	if optionCount < 1 {
		return 'A'
	}
	return byte('A' + optionCount - 1)
}
