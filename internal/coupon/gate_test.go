package coupon

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/letsssgooo/promoBot/internal/quiz"
	"github.com/letsssgooo/promoBot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newGate(t *testing.T, st storage.Store, total int) *Gate {
	t.Helper()

	gate, err := NewGate(context.Background(), st, total, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return gate
}

func fullAnswers() quiz.Answers {
	return quiz.Answers{1: "a", 2: "b", 3: "a"}
}

func remaining(t *testing.T, st storage.Store) string {
	t.Helper()

	value, ok, err := st.Get(context.Background(), storage.KeyCouponsRemaining)
	require.NoError(t, err)
	require.True(t, ok)

	return value
}

func TestNewGate_InitializesCounter(t *testing.T) {
	st := storage.NewMemoryStore()
	newGate(t, st, 20)

	assert.Equal(t, "20", remaining(t, st))
}

func TestNewGate_KeepsExistingCounter(t *testing.T) {
	st := storage.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), storage.KeyCouponsRemaining, "7"))

	gate := newGate(t, st, 20)

	status, err := gate.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, status.Remaining)
	assert.Equal(t, 20, status.Total)
	assert.Equal(t, "7", remaining(t, st))
}

func TestNewGate_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewGate(ctx, storage.NewMemoryStore(), -1)
	assert.Error(t, err)

	st := storage.NewMemoryStore()
	require.NoError(t, st.Set(ctx, storage.KeyCouponsRemaining, "many"))
	_, err = NewGate(ctx, st, 20)
	assert.ErrorIs(t, err, ErrCorruptState)

	st = storage.NewMemoryStore()
	st.Fail(errors.New("quota exceeded"))
	_, err = NewGate(ctx, st, 20)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestGate_FreshUserScenario(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 20)

	result, err := gate.TryStart(ctx, "")
	require.NoError(t, err)
	require.Equal(t, Started, result)

	seq := quiz.NewSequencer(quiz.DefaultQuiz())
	seq.Begin()

	for i, q := range quiz.DefaultQuiz().Questions {
		_, err = seq.RecordAnswer(i+1, q.Options[0].ID)
		require.NoError(t, err)
	}

	event, err := seq.Complete()
	require.NoError(t, err)

	award, err := gate.OnQuizComplete(ctx, "", event.Answers)
	require.NoError(t, err)
	assert.Equal(t, 19, award.Remaining)
	assert.Equal(t, TierNormal, award.Tier)
	assert.NotEmpty(t, award.Submission.ID)
	assert.Equal(t, fixedNow, award.Submission.Timestamp)

	assert.Equal(t, "19", remaining(t, st))

	claimed, err := gate.HasClaimed(ctx, "")
	require.NoError(t, err)
	assert.True(t, claimed)

	value, _, err := st.Get(ctx, "user_has_coupon")
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestGate_AlreadyClaimed(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	require.NoError(t, st.Set(ctx, storage.KeyCouponsRemaining, "10"))
	require.NoError(t, st.Set(ctx, storage.UserCouponKey("42"), "true"))

	gate := newGate(t, st, 20)

	result, err := gate.TryStart(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, AlreadyClaimed, result)
	assert.Equal(t, "10", remaining(t, st))

	// другой пользователь всё ещё может участвовать
	result, err = gate.TryStart(ctx, "43")
	require.NoError(t, err)
	assert.Equal(t, Started, result)
}

func TestGate_SoldOut(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		claimed bool
	}{
		{name: "fresh user", claimed: false},
		{name: "claimed user", claimed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := storage.NewMemoryStore()
			require.NoError(t, st.Set(ctx, storage.KeyCouponsRemaining, "0"))

			if tc.claimed {
				require.NoError(t, st.Set(ctx, storage.UserCouponKey("1"), "true"))
			}

			gate := newGate(t, st, 20)

			result, err := gate.TryStart(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, SoldOut, result)
			assert.Equal(t, "0", remaining(t, st))
		})
	}
}

func TestGate_OnQuizComplete_NeverBelowZero(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 1)

	_, err := gate.OnQuizComplete(ctx, "1", fullAnswers())
	require.NoError(t, err)

	_, err = gate.OnQuizComplete(ctx, "2", fullAnswers())
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, "0", remaining(t, st))

	submissions, err := gate.Submissions(ctx)
	require.NoError(t, err)
	assert.Len(t, submissions, 1)
}

func TestGate_OnQuizComplete_SecondClaimRefused(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 5)

	_, err := gate.OnQuizComplete(ctx, "1", fullAnswers())
	require.NoError(t, err)

	_, err = gate.OnQuizComplete(ctx, "1", fullAnswers())
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, "4", remaining(t, st))
}

func TestGate_OnQuizComplete_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 3)

	st.Fail(errors.New("storage is full"))

	_, err := gate.OnQuizComplete(ctx, "1", fullAnswers())
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, err = gate.TryStart(ctx, "1")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	st.Fail(nil)

	// частичного списания нет
	assert.Equal(t, "3", remaining(t, st))

	claimed, err := gate.HasClaimed(ctx, "1")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestGate_SubmissionsLog(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 10)

	_, err := gate.OnQuizComplete(ctx, "1", quiz.Answers{1: "a", 2: "b", 3: "c"})
	require.NoError(t, err)
	_, err = gate.OnQuizComplete(ctx, "2", quiz.Answers{1: "c", 2: "b", 3: "a"})
	require.NoError(t, err)

	raw, ok, err := st.Get(ctx, storage.KeyQuizSubmissions)
	require.NoError(t, err)
	require.True(t, ok)

	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, map[string]any{"1": "a", "2": "b", "3": "c"}, stored[0]["answers"])
	assert.Contains(t, stored[0], "timestamp")

	submissions, err := gate.Submissions(ctx)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "2", submissions[1].UserID)
	assert.Equal(t, quiz.Answers{1: "c", 2: "b", 3: "a"}, submissions[1].Answers)
}

func TestGate_OnQuizComplete_CorruptLog(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 10)

	require.NoError(t, st.Set(ctx, storage.KeyQuizSubmissions, "{not json"))

	result, err := gate.TryStart(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, Started, result)

	// битый журнал не мешает выдаче купона
	award, err := gate.OnQuizComplete(ctx, "1", fullAnswers())
	require.NoError(t, err)
	assert.Equal(t, 9, award.Remaining)
	assert.Equal(t, "9", remaining(t, st))

	claimed, err := gate.HasClaimed(ctx, "1")
	require.NoError(t, err)
	assert.True(t, claimed)

	submissions, err := gate.Submissions(ctx)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, award.Submission.ID, submissions[0].ID)

	// старое значение отложено под отдельный ключ
	backup, ok, err := st.Get(ctx, storage.CorruptSubmissionsKey(fixedNow))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{not json", backup)
}

func TestGate_ConcurrentAwards(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	gate := newGate(t, st, 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(user int) {
			defer wg.Done()

			_, err := gate.OnQuizComplete(ctx, strings.Repeat("u", user+1), fullAnswers())
			if err == nil {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 10, awarded)
	assert.Equal(t, "0", remaining(t, st))
}

func TestTierFor(t *testing.T) {
	testCases := []struct {
		remaining int
		want      Tier
	}{
		{remaining: 20, want: TierNormal},
		{remaining: 6, want: TierNormal},
		{remaining: 5, want: TierLow},
		{remaining: 1, want: TierLow},
		{remaining: 0, want: TierEmpty},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, TierFor(tc.remaining), "remaining=%d", tc.remaining)
	}
}

func TestExportCSV(t *testing.T) {
	data, err := ExportCSV([]Submission{
		{
			ID:        "id-1",
			UserID:    "42",
			Answers:   quiz.Answers{3: "c", 1: "a", 2: "b"},
			Timestamp: fixedNow,
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"ID", "UserID", "Answers", "Timestamp"}, records[0])
	assert.Equal(t, []string{"id-1", "42", "1=a;2=b;3=c", "2026-03-01T12:00:00Z"}, records[1])
}

func TestExportCSV_Empty(t *testing.T) {
	data, err := ExportCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "ID,UserID,Answers,Timestamp\n", string(data))
}
