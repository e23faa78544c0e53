package book

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/memory"
)

type stubGateway struct {
	lastQuery string
	err       error
}

func (g *stubGateway) Search(_ context.Context, query string) ([]catalog.Book, error) {
	g.lastQuery = query
	if g.err != nil {
		return nil, g.err
	}
	return []catalog.Book{{ID: "b1", Title: "JS", Author: catalog.UnknownAuthor, Description: catalog.NoDescription}}, nil
}

func (g *stubGateway) Get(_ context.Context, id string) (*catalog.Book, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &catalog.Book{ID: id, Title: "JS", Author: "Ann"}, nil
}

func newUseCase(t *testing.T, gw catalog.Gateway) (*BookUseCase, review.Service, *account.Account) {
	t.Helper()
	store := memory.NewStore()
	acc, err := account.NewService(store.Accounts()).Register(context.Background(), "alice", "pw")
	require.NoError(t, err)

	reviews := review.NewService(store.Reviews(), store.Accounts())
	return NewBookUseCase(gw, reviews, ""), reviews, acc
}

func TestBookUseCase_Search(t *testing.T) {
	gw := &stubGateway{}
	uc, _, _ := newUseCase(t, gw)
	ctx := context.Background()

	items, err := uc.Search(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultSearchQuery, gw.lastQuery, "关键词为空时使用默认关键词")
	require.Len(t, items, 1)

	data, err := json.Marshal(items[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b1","title":"JS","author":"Unknown","thumbnail":null,"description":"No description available"}`, string(data))

	_, err = uc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, "golang", gw.lastQuery)
}

func TestBookUseCase_UpstreamError(t *testing.T) {
	uc, _, _ := newUseCase(t, &stubGateway{err: catalog.ErrLookupFailed})

	_, err := uc.Get(context.Background(), "b1")
	assert.ErrorIs(t, err, catalog.ErrLookupFailed)
}

func TestBookUseCase_Rankings(t *testing.T) {
	uc, reviews, alice := newUseCase(t, &stubGateway{})
	ctx := context.Background()

	top, err := uc.TopRated(ctx)
	require.NoError(t, err)
	data, err := json.Marshal(top)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data), "没有书评时返回空数组")

	for _, in := range []review.NewReview{
		{UserID: alice.ID, BookID: "A", BookTitle: "Alpha", ReviewText: "x", Rating: 8, Recommended: true},
		{UserID: alice.ID, BookID: "A", BookTitle: "Alpha", ReviewText: "x", Rating: 10, Recommended: false},
		{UserID: alice.ID, BookID: "B", BookTitle: "Beta", ReviewText: "x", Rating: 5, Recommended: true},
	} {
		_, err := reviews.CreateReview(ctx, in)
		require.NoError(t, err)
	}

	top, err = uc.TopRated(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].ID)
	assert.Equal(t, 9.0, top[0].AvgRating)
	assert.Nil(t, top[0].Thumbnail)

	rec, err := uc.MostRecommended(ctx)
	require.NoError(t, err)
	require.Len(t, rec, 2)
	assert.Equal(t, "B", rec[0].ID)
	assert.Equal(t, 100, rec[0].RecommendPercent)
	assert.Equal(t, 50, rec[1].RecommendPercent)
}
