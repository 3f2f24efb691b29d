package extraction_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports"
	"github.com/weft-build/weft/internal/core/ports/mocks"
	"github.com/weft-build/weft/internal/engine/extraction"
	"go.uber.org/mock/gomock"
)

type coordinatorTestMocks struct {
	extractor *mocks.MockExtractor
	workspace *mocks.MockWorkspace
	logger    *mocks.MockLogger
}

func setupCoordinatorTest(t *testing.T, limit int) (*extraction.Coordinator, coordinatorTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := coordinatorTestMocks{
		extractor: mocks.NewMockExtractor(ctrl),
		workspace: mocks.NewMockWorkspace(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	m.workspace.EXPECT().ScopedDir(gomock.Any()).DoAndReturn(
		func(parts ...string) (string, error) {
			dir := "/work"
			for _, p := range parts {
				dir += "/" + p
			}
			return dir, nil
		},
	).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Nested(gomock.Any()).Return(m.logger).AnyTimes()

	return extraction.NewCoordinator(m.extractor, m.workspace, limit), m
}

func projectConfigs(names ...string) []domain.ProjectConfig {
	configs := make([]domain.ProjectConfig, len(names))
	for i, n := range names {
		configs[i] = domain.ProjectConfig{Name: n, URI: "git://example.com/" + n}
	}
	return configs
}

// metaWithVersion builds a minimal distinguishable extraction result.
func metaWithVersion(version string) domain.ExtractedMeta {
	return domain.ExtractedMeta{Modules: []domain.ModuleMeta{{Version: version}}}
}

func TestExtractAll_ResultsInInputOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// "slow" finishes last but still lands first in the result slice.
		c, m := setupCoordinatorTest(t, 0)

		m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cfg domain.ProjectConfig, _ string, _ ports.Logger) (domain.ExtractedMeta, error) {
				if cfg.Name == "slow" {
					time.Sleep(time.Second)
				}
				return metaWithVersion(cfg.Name), nil
			},
		).Times(2)

		results, err := c.ExtractAll(context.Background(), "run1", projectConfigs("slow", "fast"), m.logger)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "slow", results[0].Config.Name)
		assert.Equal(t, metaWithVersion("slow"), results[0].Meta)
		assert.Equal(t, "fast", results[1].Config.Name)
	})
}

func TestExtractAll_RunsConcurrently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Three extractions of one virtual second each complete in one
		// second when unlimited.
		c, m := setupCoordinatorTest(t, 0)

		m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cfg domain.ProjectConfig, _ string, _ ports.Logger) (domain.ExtractedMeta, error) {
				time.Sleep(time.Second)
				return metaWithVersion(cfg.Name), nil
			},
		).Times(3)

		start := time.Now()
		_, err := c.ExtractAll(context.Background(), "run1", projectConfigs("a", "b", "c"), m.logger)
		require.NoError(t, err)
		assert.Equal(t, time.Second, time.Since(start))
	})
}

func TestExtractAll_LimitSerializes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := setupCoordinatorTest(t, 1)

		m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cfg domain.ProjectConfig, _ string, _ ports.Logger) (domain.ExtractedMeta, error) {
				time.Sleep(time.Second)
				return metaWithVersion(cfg.Name), nil
			},
		).Times(2)

		start := time.Now()
		_, err := c.ExtractAll(context.Background(), "run1", projectConfigs("a", "b"), m.logger)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, time.Since(start))
	})
}

func TestExtractAll_FirstFailureCancelsRest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, m := setupCoordinatorTest(t, 0)

		boom := errors.New("no build definition found")
		m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, cfg domain.ProjectConfig, _ string, _ ports.Logger) (domain.ExtractedMeta, error) {
				if cfg.Name == "bad" {
					return domain.ExtractedMeta{}, boom
				}
				// The sibling blocks until the failure cancels the group.
				<-ctx.Done()
				return domain.ExtractedMeta{}, ctx.Err()
			},
		).Times(2)

		results, err := c.ExtractAll(context.Background(), "run1", projectConfigs("bad", "blocked"), m.logger)
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrExtractionFailed)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "extraction failed")
		assert.Nil(t, results)
	})
}

func TestExtractAll_ScopesWorkDirectories(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := coordinatorTestMocks{
		extractor: mocks.NewMockExtractor(ctrl),
		workspace: mocks.NewMockWorkspace(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Nested("alpha").Return(m.logger)

	m.workspace.EXPECT().ScopedDir("cafe01", "extract", "alpha").Return("/work/cafe01/extract/alpha", nil)
	m.extractor.EXPECT().
		Extract(gomock.Any(), gomock.Any(), "/work/cafe01/extract/alpha", gomock.Any()).
		Return(metaWithVersion("alpha"), nil)

	c := extraction.NewCoordinator(m.extractor, m.workspace, 0)
	results, err := c.ExtractAll(context.Background(), "cafe01", projectConfigs("alpha"), m.logger)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestExtractAll_WorkspaceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := coordinatorTestMocks{
		extractor: mocks.NewMockExtractor(ctrl),
		workspace: mocks.NewMockWorkspace(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Nested(gomock.Any()).Return(m.logger).AnyTimes()

	m.workspace.EXPECT().ScopedDir(gomock.Any()).Return("", errors.New("disk full"))

	c := extraction.NewCoordinator(m.extractor, m.workspace, 0)
	_, err := c.ExtractAll(context.Background(), "run1", projectConfigs("alpha"), m.logger)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "allocating extraction directory")
}
