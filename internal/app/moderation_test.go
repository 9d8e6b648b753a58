package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real_estate/internal/app"
	"real_estate/internal/domain"
)

func newModeration() (*app.ModerationService, *fakeModeration, *fakeCache) {
	repo := &fakeModeration{
		comments: map[string]domain.ModerationStatus{"c1": domain.ModerationPending, "c2": domain.ModerationApproved},
		reviews:  map[string]domain.ModerationStatus{"r1": domain.ModerationPending},
	}
	cache := &fakeCache{}
	return app.NewModerationService(repo, &fakeStats{}, cache), repo, cache
}

func TestUpdateCommentStatus_RejectsUnknownStatus(t *testing.T) {
	svc, repo, _ := newModeration()
	for _, bad := range []string{"", "deleted", "APPROVED", "published"} {
		_, err := svc.UpdateCommentStatus(context.Background(), "c1", bad)
		require.Error(t, err, bad)
		assert.Equal(t, 400, domain.StatusOf(err), bad)
	}
	assert.Equal(t, domain.ModerationPending, repo.comments["c1"])
}

func TestUpdateCommentStatus_PendingToApproved(t *testing.T) {
	svc, repo, cache := newModeration()
	st, err := svc.UpdateCommentStatus(context.Background(), "c1", "approved")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, st)
	assert.Equal(t, domain.ModerationApproved, repo.comments["c1"])
	assert.Contains(t, cache.dropped, "stats:content")
}

func TestUpdateCommentStatus_OneShot(t *testing.T) {
	svc, repo, _ := newModeration()

	_, err := svc.UpdateCommentStatus(context.Background(), "c2", "spam")
	require.Error(t, err)
	assert.Equal(t, 400, domain.StatusOf(err))
	assert.Contains(t, err.Error(), "already been moderated")
	assert.Equal(t, domain.ModerationApproved, repo.comments["c2"])

	_, err = svc.UpdateCommentStatus(context.Background(), "c1", "pending")
	assert.Equal(t, 400, domain.StatusOf(err))
}

func TestUpdateCommentStatus_Missing(t *testing.T) {
	svc, _, _ := newModeration()
	_, err := svc.UpdateCommentStatus(context.Background(), "nope", "approved")
	assert.Equal(t, 404, domain.StatusOf(err))
}

func TestUpdateReviewStatus(t *testing.T) {
	svc, repo, _ := newModeration()
	_, err := svc.UpdateReviewStatus(context.Background(), "r1", "rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationRejected, repo.reviews["r1"])

	_, err = svc.UpdateReviewStatus(context.Background(), "r1", "approved")
	assert.Equal(t, 400, domain.StatusOf(err))
}

func TestListComments_StatusFilter(t *testing.T) {
	svc, repo, _ := newModeration()

	out, err := svc.ListComments(context.Background(), domain.CommentsQuery{Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, "", repo.listQ.Status)
	assert.Equal(t, 10, repo.listQ.Limit)
	assert.NotNil(t, out.Comments)

	_, err = svc.ListComments(context.Background(), domain.CommentsQuery{Status: "hidden"})
	assert.Equal(t, 400, domain.StatusOf(err))
}

func TestReviewCounts(t *testing.T) {
	stats := &fakeStats{
		reviewStat: []domain.StatusCount{{Status: "pending", Count: 2}, {Status: "approved", Count: 5}, {Status: "spam", Count: 1}},
		ratings:    domain.RatingAverages{Location: 4.26, Condition: 3.0, Value: 3.95, Amenities: 5},
	}
	svc := app.NewModerationService(&fakeModeration{}, stats, &fakeCache{})

	out, err := svc.ReviewCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationCounts{Total: 8, Pending: 2, Approved: 5, Spam: 1}, out.ModerationCounts)
	assert.Equal(t, domain.RatingAverages{Location: 4.3, Condition: 3, Value: 4, Amenities: 5}, out.AverageRatings)
}
