package generator

import (
	"context"
	"time"
)

// BackoffDelay は attempt 回目（0始まり）の再試行前に待つ時間を返します。
// base * 2^attempt で、MaxBackoffDelay で頭打ちになります。サーバーの Retry-After は参照しません。
func BackoffDelay(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if base >= MaxBackoffDelay {
		return MaxBackoffDelay
	}
	d := base
	for i := 0; i < attempt; i++ {
		if d >= MaxBackoffDelay/2 {
			return MaxBackoffDelay
		}
		d <<= 1
	}
	return d
}

// sleepContext は d だけ待機します。ctx が先に終了した場合はそのエラーを返します。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
