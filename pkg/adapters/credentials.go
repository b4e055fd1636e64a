package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

// StaticCredentials は固定の API キーを返す CredentialProvider です。
type StaticCredentials string

// APIKey はキーを返します。空の場合は generator.ErrCredentialNotFound を返します。
func (s StaticCredentials) APIKey(ctx context.Context) (string, error) {
	key := strings.TrimSpace(string(s))
	if key == "" {
		return "", generator.ErrCredentialNotFound
	}
	return key, nil
}

// ChainCredentials は先頭から順に試し、最初に見つかったキーを返します。
// ErrCredentialNotFound 以外のエラーはその時点で返します。
type ChainCredentials []generator.CredentialProvider

func (c ChainCredentials) APIKey(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		key, err := p.APIKey(ctx)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, generator.ErrCredentialNotFound) {
			return "", err
		}
	}
	return "", generator.ErrCredentialNotFound
}
