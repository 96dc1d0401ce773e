package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oss-insights/issue-report/internal/domain"
)

// mockSource is a mock implementation of the gateway.Source interface.
// It lets us exercise the reporter without making real API calls.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchIssues(ctx context.Context, owner, repo, state string, limit int) ([]domain.IssueRecord, error) {
	args := m.Called(ctx, owner, repo, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IssueRecord), args.Error(1)
}

func TestReporter_Run(t *testing.T) {
	openIssues := []domain.IssueRecord{
		{Number: 3, CreatedAt: testNow.Add(-2 * 24 * time.Hour), Labels: []string{"Type:Bug"}},
	}
	closedIssues := []domain.IssueRecord{
		{Number: 1, CreatedAt: testNow.Add(-40 * 24 * time.Hour), Labels: []string{"question"}, Assignees: []string{"alice"}},
		{Number: 2, CreatedAt: testNow.Add(-400 * 24 * time.Hour)},
	}

	testCases := []struct {
		name          string
		states        []string
		mockOpen      []domain.IssueRecord
		mockClosed    []domain.IssueRecord
		mockOpenErr   error
		mockClosedErr error
		expectedTotal int
		expectError   bool
	}{
		{
			name:          "single state",
			states:        []string{"open"},
			mockOpen:      openIssues,
			expectedTotal: 1,
		},
		{
			name:          "all states are fetched and merged",
			states:        []string{"open", "closed"},
			mockOpen:      openIssues,
			mockClosed:    closedIssues,
			expectedTotal: 3,
		},
		{
			name:          "fetch error is propagated",
			states:        []string{"open", "closed"},
			mockOpen:      openIssues,
			mockClosedErr: errors.New("github api error"),
			expectError:   true,
		},
		{
			name:          "empty repository",
			states:        []string{"open"},
			mockOpen:      []domain.IssueRecord{},
			expectedTotal: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := log.New(io.Discard, "", 0)
			source := new(mockSource)
			source.On("FetchIssues", mock.Anything, "any-owner", "any-repo", "open", 1000).Return(tc.mockOpen, tc.mockOpenErr).Maybe()
			source.On("FetchIssues", mock.Anything, "any-owner", "any-repo", "closed", 1000).Return(tc.mockClosed, tc.mockClosedErr).Maybe()

			reporter := NewReporter(source, logger)
			report, err := reporter.Run(context.Background(), "any-owner", "any-repo", tc.states, 1000, testNow)

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, report)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedTotal, report.Total)
		})
	}
}

func TestReporter_Run_MergeIsOrderIndependent(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	a := []domain.IssueRecord{{Number: 1, CreatedAt: testNow.Add(-2 * 24 * time.Hour), Labels: []string{"bug"}}}
	b := []domain.IssueRecord{{Number: 2, CreatedAt: testNow.Add(-60 * 24 * time.Hour), Labels: []string{"docs"}}}

	forward := new(mockSource)
	forward.On("FetchIssues", mock.Anything, "o", "r", "open", 10).Return(a, nil)
	forward.On("FetchIssues", mock.Anything, "o", "r", "closed", 10).Return(b, nil)

	reversed := new(mockSource)
	reversed.On("FetchIssues", mock.Anything, "o", "r", "open", 10).Return(b, nil)
	reversed.On("FetchIssues", mock.Anything, "o", "r", "closed", 10).Return(a, nil)

	first, err := NewReporter(forward, logger).Run(context.Background(), "o", "r", []string{"open", "closed"}, 10, testNow)
	assert.NoError(t, err)
	second, err := NewReporter(reversed, logger).Run(context.Background(), "o", "r", []string{"open", "closed"}, 10, testNow)
	assert.NoError(t, err)

	assert.Equal(t, first, second, "bucket counts must not depend on which state delivered a record")
}
