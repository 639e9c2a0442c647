package reaction

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestPredictSwitchFromDislike(t *testing.T) {
	cur := model.Reaction{LikesCount: 3, DislikesCount: 1, IsDisliked: true}
	got := Predict(cur, Like)
	want := model.Reaction{LikesCount: 4, DislikesCount: 0, IsLiked: true}
	if got != want {
		t.Fatalf("Predict = %+v, want %+v", got, want)
	}
}

func TestPredictTable(t *testing.T) {
	cases := []struct {
		name string
		cur  model.Reaction
		kind Kind
		want model.Reaction
	}{
		{"like fresh", model.Reaction{LikesCount: 5}, Like, model.Reaction{LikesCount: 6, IsLiked: true}},
		{"unlike", model.Reaction{LikesCount: 6, IsLiked: true}, Like, model.Reaction{LikesCount: 5}},
		{"dislike fresh", model.Reaction{DislikesCount: 2}, Dislike, model.Reaction{DislikesCount: 3, IsDisliked: true}},
		{"undislike", model.Reaction{DislikesCount: 3, IsDisliked: true}, Dislike, model.Reaction{DislikesCount: 2}},
		{"switch to dislike", model.Reaction{LikesCount: 1, IsLiked: true}, Dislike, model.Reaction{DislikesCount: 1, IsDisliked: true}},
		{"never negative", model.Reaction{IsLiked: true}, Like, model.Reaction{}},
	}
	for _, c := range cases {
		if got := Predict(c.cur, c.kind); got != c.want {
			t.Fatalf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	cases := []struct {
		start model.Reaction
		kind  Kind
	}{
		{model.Reaction{LikesCount: 5}, Like},
		{model.Reaction{LikesCount: 5, IsLiked: true}, Like},
		{model.Reaction{DislikesCount: 7}, Dislike},
		{model.Reaction{LikesCount: 2, DislikesCount: 7, IsDisliked: true}, Dislike},
	}
	for _, c := range cases {
		if got := Predict(Predict(c.start, c.kind), c.kind); got != c.start {
			t.Fatalf("%s twice from %+v = %+v", c.kind, c.start, got)
		}
	}
}

func TestMutualExclusionUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cur := model.Reaction{LikesCount: 10, DislikesCount: 10}
	for i := 0; i < 1000; i++ {
		kind := Like
		if rng.Intn(2) == 1 {
			kind = Dislike
		}
		cur = Predict(cur, kind)
		if cur.IsLiked && cur.IsDisliked {
			t.Fatalf("step %d: both flags set: %+v", i, cur)
		}
		if cur.LikesCount < 0 || cur.DislikesCount < 0 {
			t.Fatalf("step %d: negative count: %+v", i, cur)
		}
	}
}

func TestSettleRollsBackOnFailure(t *testing.T) {
	snapshot := model.Reaction{LikesCount: 5}
	predicted := Predict(snapshot, Like)

	if got := Settle(predicted, snapshot, nil, errors.New("network down")); got != snapshot {
		t.Fatalf("failure settle = %+v, want %+v", got, snapshot)
	}

	malformed := []*dto.ReactionResponse{
		nil,
		{LikesCount: -1},
		{LikesCount: 1, IsLiked: boolPtr(true), IsDisliked: boolPtr(true)},
	}
	for _, resp := range malformed {
		if got := Settle(predicted, snapshot, resp, nil); got != snapshot {
			t.Fatalf("malformed %+v settled to %+v", resp, got)
		}
	}
}

func TestSettleTrustsServer(t *testing.T) {
	snapshot := model.Reaction{LikesCount: 5}
	predicted := Predict(snapshot, Like)

	// another viewer liked at the same time
	resp := &dto.ReactionResponse{LikesCount: 7, DislikesCount: 0, IsLiked: boolPtr(true), IsDisliked: boolPtr(false)}
	want := model.Reaction{LikesCount: 7, IsLiked: true}
	if got := Settle(predicted, snapshot, resp, nil); got != want {
		t.Fatalf("Settle = %+v, want %+v", got, want)
	}
}

func TestSettleKeepsPredictedFlagsWhenAbsent(t *testing.T) {
	snapshot := model.Reaction{LikesCount: 1, DislikesCount: 1, IsDisliked: true}
	predicted := Predict(snapshot, Like)

	got := Settle(predicted, snapshot, &dto.ReactionResponse{LikesCount: 2, DislikesCount: 0}, nil)
	want := model.Reaction{LikesCount: 2, IsLiked: true}
	if got != want {
		t.Fatalf("Settle = %+v, want %+v", got, want)
	}

	got = Settle(predicted, snapshot, &dto.ReactionResponse{LikesCount: 1, DislikesCount: 1, IsDisliked: boolPtr(true)}, nil)
	if got.IsLiked || !got.IsDisliked {
		t.Fatalf("server flag must win over predicted one: %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("dislike"); err != nil || k != Dislike {
		t.Fatalf("ParseKind(dislike) = %v, %v", k, err)
	}
	if _, err := ParseKind("love"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}
