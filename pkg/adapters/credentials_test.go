package adapters

import (
	"context"
	"testing"

	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
	"github.com/stretchr/testify/assert"
)

func TestStaticCredentials(t *testing.T) {
	ctx := context.Background()

	key, err := StaticCredentials(" AIza-test ").APIKey(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "AIza-test", key)

	_, err = StaticCredentials("").APIKey(ctx)
	assert.ErrorIs(t, err, generator.ErrCredentialNotFound)
}

func TestChainCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("最初に見つかったキーを使うのだ", func(t *testing.T) {
		chain := ChainCredentials{StaticCredentials(""), nil, StaticCredentials("second"), StaticCredentials("third")}
		key, err := chain.APIKey(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "second", key)
	})

	t.Run("未設定以外のエラーは隠さずに返すのだ", func(t *testing.T) {
		chain := ChainCredentials{StaticCredentials(""), failingCredentials{}, StaticCredentials("fallback")}
		_, err := chain.APIKey(ctx)
		assert.EqualError(t, err, "keychain locked")
		assert.NotErrorIs(t, err, generator.ErrCredentialNotFound)
	})

	t.Run("どれも無ければ ErrCredentialNotFound なのだ", func(t *testing.T) {
		_, err := ChainCredentials{nil, StaticCredentials("")}.APIKey(ctx)
		assert.ErrorIs(t, err, generator.ErrCredentialNotFound)
	})
}
