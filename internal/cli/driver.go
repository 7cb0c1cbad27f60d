package cli

import (
	"context"
	"errors"

	"studyhub/internal/quiz"
	"studyhub/internal/study"
)

// Driver is the quiz backend the runner plays against.
type Driver interface {
	ListTests(ctx context.Context) ([]quiz.TestInfo, error)
	ListTopics(ctx context.Context) ([]study.Topic, error)
	Start(ctx context.Context, testID string) (quiz.View, error)
	Record(ctx context.Context, questionID string, answer quiz.Answer) (quiz.View, error)
	Advance(ctx context.Context) (quiz.View, error)
	Retreat(ctx context.Context) (quiz.View, error)
	Move(ctx context.Context, questionID string, from, to int) (quiz.View, error)
	Shuffle(ctx context.Context, questionID string) (quiz.View, error)
	Finish(ctx context.Context) (quiz.Report, error)
	Retake(ctx context.Context) (quiz.View, error)
	Exit(ctx context.Context) error
}

// LocalDriver runs the engine in-process.
type LocalDriver struct {
	catalog quiz.Catalog
	topics  *study.Library
	engine  *quiz.Engine
}

func NewLocalDriver(catalog quiz.Catalog, topics *study.Library, opts ...quiz.Option) *LocalDriver {
	return &LocalDriver{
		catalog: catalog,
		topics:  topics,
		engine:  quiz.NewEngine(catalog, opts...),
	}
}

func (d *LocalDriver) ListTests(ctx context.Context) ([]quiz.TestInfo, error) {
	return d.catalog.ListTests(ctx)
}

func (d *LocalDriver) ListTopics(context.Context) ([]study.Topic, error) {
	if d.topics == nil {
		return nil, nil
	}
	return d.topics.List(), nil
}

// Start abandons any attempt in progress and selects testID. An unavailable
// test is reported through the view's phase, not as an error.
func (d *LocalDriver) Start(ctx context.Context, testID string) (quiz.View, error) {
	d.engine.Exit()
	err := d.engine.SelectTest(ctx, testID)
	if err != nil && !errors.Is(err, quiz.ErrTestUnavailable) {
		return quiz.View{}, err
	}
	return d.engine.View(), nil
}

func (d *LocalDriver) Record(_ context.Context, questionID string, answer quiz.Answer) (quiz.View, error) {
	if err := d.engine.RecordAnswer(questionID, answer); err != nil {
		return quiz.View{}, err
	}
	return d.engine.View(), nil
}

func (d *LocalDriver) Advance(context.Context) (quiz.View, error) {
	d.engine.Advance()
	return d.engine.View(), nil
}

func (d *LocalDriver) Retreat(context.Context) (quiz.View, error) {
	d.engine.Retreat()
	return d.engine.View(), nil
}

func (d *LocalDriver) Move(_ context.Context, questionID string, from, to int) (quiz.View, error) {
	list, err := d.engine.Reorder(questionID)
	if err != nil {
		return quiz.View{}, err
	}
	list.Move(from, to)
	return d.engine.View(), nil
}

func (d *LocalDriver) Shuffle(_ context.Context, questionID string) (quiz.View, error) {
	list, err := d.engine.Reorder(questionID)
	if err != nil {
		return quiz.View{}, err
	}
	list.Shuffle()
	return d.engine.View(), nil
}

func (d *LocalDriver) Finish(context.Context) (quiz.Report, error) {
	return d.engine.Finish()
}

func (d *LocalDriver) Retake(context.Context) (quiz.View, error) {
	if err := d.engine.Retake(); err != nil {
		return quiz.View{}, err
	}
	return d.engine.View(), nil
}

func (d *LocalDriver) Exit(context.Context) error {
	d.engine.Exit()
	return nil
}
