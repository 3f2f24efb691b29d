package mirror_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/adapters/mirror"
	"github.com/weft-build/weft/internal/core/domain"
	"github.com/weft-build/weft/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func sampleRecord(t *testing.T) *domain.RepeatableBuild {
	t.Helper()
	rec, err := domain.AssembleRepeatable([]domain.ProjectExtraction{{
		Config: domain.ProjectConfig{Name: "core", URI: "git://example.com/core"},
	}})
	require.NoError(t, err)
	return rec
}

func TestFanout_PublishWritesEveryStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockMetadataRepository(ctrl)
	replica := mocks.NewMockMetadataRepository(ctrl)
	rec := sampleRecord(t)

	primary.EXPECT().Publish(gomock.Any(), rec).Return(nil).Times(1)
	replica.EXPECT().Publish(gomock.Any(), rec).Return(nil).Times(1)

	f := mirror.NewFanout(primary, replica)
	require.NoError(t, f.Publish(context.Background(), rec))
}

func TestFanout_PublishFailsWhenAnyStoreFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockMetadataRepository(ctrl)
	replica := mocks.NewMockMetadataRepository(ctrl)
	rec := sampleRecord(t)

	mirrorDown := errors.New("mirror unreachable")
	primary.EXPECT().Publish(gomock.Any(), rec).Return(nil).Times(1)
	replica.EXPECT().Publish(gomock.Any(), rec).Return(mirrorDown).Times(1)

	f := mirror.NewFanout(primary, replica)
	err := f.Publish(context.Background(), rec)
	require.ErrorIs(t, err, mirrorDown)
}

func TestFanout_GetPrefersPrimary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockMetadataRepository(ctrl)
	replica := mocks.NewMockMetadataRepository(ctrl)
	rec := sampleRecord(t)

	primary.EXPECT().Get(gomock.Any(), rec.UUID).Return(rec, nil).Times(1)
	// The replica is never consulted on a primary hit.

	f := mirror.NewFanout(primary, replica)
	got, err := f.Get(context.Background(), rec.UUID)
	require.NoError(t, err)
	assert.Equal(t, rec.UUID, got.UUID)
}

func TestFanout_GetFallsBackToReplica(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockMetadataRepository(ctrl)
	replica := mocks.NewMockMetadataRepository(ctrl)
	rec := sampleRecord(t)

	primary.EXPECT().Get(gomock.Any(), rec.UUID).Return(nil, domain.ErrRecordNotFound).Times(1)
	replica.EXPECT().Get(gomock.Any(), rec.UUID).Return(rec, nil).Times(1)

	f := mirror.NewFanout(primary, replica)
	got, err := f.Get(context.Background(), rec.UUID)
	require.NoError(t, err)
	assert.Equal(t, rec.UUID, got.UUID)
}

func TestFanout_GetMissEverywhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockMetadataRepository(ctrl)
	replica := mocks.NewMockMetadataRepository(ctrl)

	primary.EXPECT().Get(gomock.Any(), "cafe00000001").Return(nil, domain.ErrRecordNotFound).Times(1)
	replica.EXPECT().Get(gomock.Any(), "cafe00000001").Return(nil, domain.ErrRecordNotFound).Times(1)

	f := mirror.NewFanout(primary, replica)
	got, err := f.Get(context.Background(), "cafe00000001")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.Nil(t, got)
}
