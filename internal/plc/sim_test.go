package plc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimPortRequiresConnect(t *testing.T) {
	port := NewSimPort()
	ctx := context.Background()

	_, err := port.ReadLED(ctx, 1)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, port.WriteLED(ctx, 1, true), ErrNotConnected)

	require.NoError(t, port.Connect(ctx))
	require.NoError(t, port.WriteLED(ctx, 1, true))

	on, err := port.ReadLED(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)

	port.Disconnect()
	_, err = port.ReadLED(ctx, 1)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSimPortButtonAndEmergency(t *testing.T) {
	port := NewSimPort()
	ctx := context.Background()
	require.NoError(t, port.Connect(ctx))

	pressed, err := port.ReadButton(ctx, 3)
	require.NoError(t, err)
	assert.False(t, pressed)

	port.SetButton(3, true)
	pressed, err = port.ReadButton(ctx, 3)
	require.NoError(t, err)
	assert.True(t, pressed)

	active, err := port.ReadEmergency(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	port.SetEmergency(true)
	active, err = port.ReadEmergency(ctx)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSimPortErrorInjection(t *testing.T) {
	port := NewSimPort()
	ctx := context.Background()
	require.NoError(t, port.Connect(ctx))

	boom := errors.New("boom")
	port.FailWrites(boom)
	assert.ErrorIs(t, port.WriteLED(ctx, 1, true), boom)
	assert.False(t, port.LED(1))

	port.FailWrites(nil)
	require.NoError(t, port.WriteLED(ctx, 1, true))
	assert.True(t, port.LED(1))

	port.FailReads(boom)
	_, err := port.ReadButton(ctx, 1)
	assert.ErrorIs(t, err, boom)
}
