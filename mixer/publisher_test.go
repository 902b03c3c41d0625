package mixer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakePublisherFailsConfiguredTimesThenSucceeds(t *testing.T) {
	p := NewFakePublisher(2)
	ctx := context.Background()

	require.ErrorIs(t, p.PostDeadDrop(ctx, SerializedDeadDrop{}), ErrFakePublishFailure)
	require.ErrorIs(t, p.PostDeadDrop(ctx, SerializedDeadDrop{}), ErrFakePublishFailure)
	require.NoError(t, p.PostDeadDrop(ctx, SerializedDeadDrop{Direction: "u2j"}))

	require.Len(t, p.Posted(), 1)
	require.Equal(t, "u2j", p.Posted()[0].Direction)
}
