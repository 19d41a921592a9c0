package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/vocab"
)

// firstGen always asks about the first candidate.
var firstGen = questiongen.GeneratorFunc(func(_ context.Context, c []vocab.Entry) (*questiongen.Question, error) {
	if len(c) == 0 {
		return nil, questiongen.ErrNoQuestion
	}
	return questionFor(c[0]), nil
})

func questionFor(e vocab.Entry) *questiongen.Question {
	return &questiongen.Question{
		Word:          e.Word,
		Options:       []string{"wrong 1", e.Definition, "wrong 2", "wrong 3"},
		CorrectAnswer: e.Definition,
	}
}

func failingGen(err error) questiongen.Generator {
	return questiongen.GeneratorFunc(func(context.Context, []vocab.Entry) (*questiongen.Question, error) {
		return nil, err
	})
}

func storeOf(words ...string) *vocab.Store {
	s := vocab.NewStore()
	for _, w := range words {
		s.Upsert(w, w+" means something")
	}
	return s
}

func TestStart_ServesAndMarksQuizzed(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()

	q, err := s.Start(context.Background(), firstGen, storeOf("alpha", "beta"), quizzed)
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "alpha", q.Word)
	assert.Equal(t, StatePresenting, s.State())
	// Served counts as used before any answer.
	assert.True(t, quizzed.Has("alpha"))
	assert.Equal(t, 1, quizzed.Len())
}

func TestStart_EmptySourceExhausts(t *testing.T) {
	s := NewSession()
	calls := 0
	gen := questiongen.GeneratorFunc(func(context.Context, []vocab.Entry) (*questiongen.Question, error) {
		calls++
		return nil, nil
	})

	q, err := s.Start(context.Background(), gen, storeOf(), NewWordSet())
	require.NoError(t, err)
	assert.Nil(t, q)
	assert.Equal(t, StateExhausted, s.State())
	assert.Equal(t, 0, calls)
}

func TestStart_SkipsQuizzedWords(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	quizzed.Add("alpha")

	var seen []vocab.Entry
	gen := questiongen.GeneratorFunc(func(_ context.Context, c []vocab.Entry) (*questiongen.Question, error) {
		seen = c
		return questionFor(c[0]), nil
	})

	q, err := s.Start(context.Background(), gen, storeOf("alpha", "beta"), quizzed)
	require.NoError(t, err)
	assert.Equal(t, "beta", q.Word)
	require.Len(t, seen, 1)
	assert.Equal(t, "beta", seen[0].Word)
}

func TestAnswer_CorrectAndIncorrect(t *testing.T) {
	s := NewSession()
	q, err := s.Start(context.Background(), firstGen, storeOf("alpha"), NewWordSet())
	require.NoError(t, err)

	fb, err := s.Answer(q.CorrectAnswer)
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, "alpha", fb.Word)
	assert.Equal(t, StateAnswered, s.State())
	assert.Nil(t, s.Question())
	require.NotNil(t, s.Feedback())

	s2 := NewSession()
	_, err = s2.Start(context.Background(), firstGen, storeOf("alpha"), NewWordSet())
	require.NoError(t, err)
	fb, err = s2.Answer("wrong 1")
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, "wrong 1", fb.Selected)
	assert.Equal(t, "alpha means something", fb.CorrectAnswer)
}

func TestAnswer_ExactComparison(t *testing.T) {
	s := NewSession()
	q, err := s.Start(context.Background(), firstGen, storeOf("alpha"), NewWordSet())
	require.NoError(t, err)

	fb, err := s.Answer(q.CorrectAnswer + " ")
	require.NoError(t, err)
	assert.False(t, fb.Correct)
}

func TestAnswer_OncePerQuestion(t *testing.T) {
	s := NewSession()
	q, err := s.Start(context.Background(), firstGen, storeOf("alpha"), NewWordSet())
	require.NoError(t, err)

	_, err = s.Answer(q.CorrectAnswer)
	require.NoError(t, err)

	_, err = s.Answer(q.CorrectAnswer)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAnswer_InvalidStates(t *testing.T) {
	s := NewSession()
	_, err := s.Answer("x")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.Start(context.Background(), firstGen, storeOf(), NewWordSet())
	require.NoError(t, err)
	_, err = s.Answer("x")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNext_WalksUntilExhausted(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	source := storeOf("a", "b", "c")

	var served []string
	q, err := s.Start(context.Background(), firstGen, source, quizzed)
	require.NoError(t, err)
	for q != nil {
		served = append(served, q.Word)
		_, err = s.Answer(q.CorrectAnswer)
		require.NoError(t, err)
		q, err = s.Next(context.Background(), firstGen)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "c"}, served)
	assert.Equal(t, StateExhausted, s.State())
	assert.Equal(t, 3, quizzed.Len())
}

func TestNext_RequiresAnswered(t *testing.T) {
	s := NewSession()
	_, err := s.Start(context.Background(), firstGen, storeOf("a", "b"), NewWordSet())
	require.NoError(t, err)

	_, err = s.Next(context.Background(), firstGen)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatePresenting, s.State())
}

func TestTransportFailure_LeavesQuizzedUnchanged(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	boom := errors.New("connection reset")

	q, err := s.Start(context.Background(), failingGen(boom), storeOf("alpha"), quizzed)
	assert.Nil(t, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.NotErrorIs(t, err, ErrGenerationRejected)
	assert.ErrorIs(t, err, boom)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.False(t, genErr.Rejected)

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, quizzed.Len())

	// Retry with the same references picks up where it left off.
	q, err = s.Start(context.Background(), firstGen, storeOf("alpha"), quizzed)
	require.NoError(t, err)
	assert.Equal(t, "alpha", q.Word)
}

func TestRejection_Exhausts(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()

	_, err := s.Start(context.Background(), failingGen(questiongen.ErrNoQuestion), storeOf("alpha"), quizzed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationRejected)
	assert.ErrorIs(t, err, questiongen.ErrNoQuestion)
	assert.NotErrorIs(t, err, ErrTransportFailure)
	assert.Equal(t, StateExhausted, s.State())
	assert.Equal(t, 0, quizzed.Len())
}

func TestFinish_UnexpectedWordIsTransportFailure(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	p, err := s.Begin(storeOf("alpha"), quizzed)
	require.NoError(t, err)

	err = s.Finish(p, &questiongen.Question{Word: "omega", CorrectAnswer: "x"}, nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, quizzed.Has("omega"))

	p, err = s.Begin(storeOf("alpha"), quizzed)
	require.NoError(t, err)
	err = s.Finish(p, nil, nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
}

func TestFinish_StaleAfterQuit(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	p, err := s.Begin(storeOf("alpha"), quizzed)
	require.NoError(t, err)
	require.Equal(t, StateLoading, s.State())

	s.Quit()

	err = s.Finish(p, questionFor(p.Candidates[0]), nil)
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Question())
	assert.Equal(t, 0, quizzed.Len())
}

func TestFinish_SupersededByNewBegin(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	source := storeOf("alpha", "beta")

	first, err := s.Begin(source, quizzed)
	require.NoError(t, err)
	second, err := s.Begin(source, quizzed)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Finish(first, questionFor(first.Candidates[0]), nil), ErrStale)
	require.NoError(t, s.Finish(second, questionFor(second.Candidates[1]), nil))
	assert.Equal(t, "beta", s.Question().Word)
	assert.False(t, quizzed.Has("alpha"))
}

func TestBegin_NotWhilePresenting(t *testing.T) {
	s := NewSession()
	_, err := s.Start(context.Background(), firstGen, storeOf("alpha"), NewWordSet())
	require.NoError(t, err)

	_, err = s.Begin(storeOf("alpha"), NewWordSet())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestQuit_KeepsQuizzed(t *testing.T) {
	s := NewSession()
	quizzed := NewWordSet()
	_, err := s.Start(context.Background(), firstGen, storeOf("alpha", "beta"), quizzed)
	require.NoError(t, err)

	s.Quit()
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Question())
	assert.Nil(t, s.Feedback())
	assert.True(t, quizzed.Has("alpha"))
}

func TestWordSet_ResetInPlace(t *testing.T) {
	w := NewWordSet()
	alias := w
	w.Add("a")
	w.Reset()
	assert.Equal(t, 0, alias.Len())
	assert.False(t, alias.Has("a"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "presenting", StatePresenting.String())
	assert.Equal(t, "unknown", State(42).String())
}
