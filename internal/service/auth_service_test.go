package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/member-graph/pkg/errcode"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	pair, err := f.auth.Login(ctx, "alice", "password-alice")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := f.tokens.Parse(pair.AccessToken)
	require.NoError(t, err)
	id, ok, err := claims.MemberID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, alice, id)

	rt, err := f.sessions.GetSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, rt)

	_, err = f.auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, errcode.LoginFailed)
	_, err = f.auth.Login(ctx, "nobody", "password-alice")
	assert.ErrorIs(t, err, errcode.LoginFailed)
}

func TestReissue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	pair, err := f.auth.Login(ctx, "alice", "password-alice")
	require.NoError(t, err)

	next, err := f.auth.Reissue(ctx, "Bearer "+pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// 旧 refresh token 已被轮换
	_, err = f.auth.Reissue(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, errcode.InvalidRefreshToken)

	// access token 不能当 refresh token 用
	_, err = f.auth.Reissue(ctx, next.AccessToken)
	assert.ErrorIs(t, err, errcode.InvalidRefreshToken)

	_, err = f.auth.Reissue(ctx, "garbage")
	assert.ErrorIs(t, err, errcode.InvalidRefreshToken)

	require.NoError(t, f.sessions.DeleteSession(ctx, "alice"))
	_, err = f.auth.Reissue(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, errcode.InvalidRefreshToken)
}
