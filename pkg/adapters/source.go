package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http/httptrace"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	// DefaultFetchTimeout は URL から入力画像を取得する際のタイムアウトです。
	DefaultFetchTimeout = 30 * time.Second
	// MaxSourceBytes は読み込む入力画像の上限サイズです。
	MaxSourceBytes = 20 << 20
)

var (
	// ErrUnsafeURL は SSRF の可能性がある URL を拒否したことを示します。
	ErrUnsafeURL = errors.New("安全でないURLです")
	// ErrSourceTooLarge は入力画像が上限サイズを超えたことを示します。
	ErrSourceTooLarge = errors.New("入力画像が大きすぎます")
)

// Fetcher は URL からバイト列を取得するクライアントです。httpkit.ClientInterface が満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// NewFetcher は go-http-kit のクライアントを生成します。
func NewFetcher(timeout time.Duration) httpkit.ClientInterface {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return httpkit.New(timeout)
}

// LocalReader はローカルファイルシステムを読む remoteio.InputReader です。
// gs:// や s3:// などのスキーム付き URI は扱いません。
type LocalReader struct{}

var _ remoteio.InputReader = LocalReader{}

func (LocalReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := localPath(uri)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// List は uri 配下のファイルを辞書順に fn へ渡します。
func (LocalReader) List(ctx context.Context, uri string, fn func(string) error) error {
	root, err := localPath(uri)
	if err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path)
	})
}

func localPath(uri string) (string, error) {
	if rest, ok := strings.CutPrefix(uri, "file://"); ok {
		return rest, nil
	}
	if i := strings.Index(uri, "://"); i > 0 {
		return "", fmt.Errorf("未対応のURIスキームです: %s", uri[:i])
	}
	return uri, nil
}

// ImageSource は http(s) URL、またはそれ以外の URI (ローカルパス、gs:// など) から入力画像を読み込みます。
type ImageSource struct {
	fetcher   Fetcher
	reader    remoteio.InputReader
	validate  func(string) error
	checkAddr func(string) error
	maxBytes  int
}

// NewImageSource は依存関係を注入して ImageSource を初期化します。
// reader が nil の場合は LocalReader を使います。
func NewImageSource(fetcher Fetcher, reader remoteio.InputReader) (*ImageSource, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if reader == nil {
		reader = LocalReader{}
	}
	return &ImageSource{
		fetcher:   fetcher,
		reader:    reader,
		validate:  validateURL,
		checkAddr: checkDialAddr,
		maxBytes:  MaxSourceBytes,
	}, nil
}

// Load は src を読み込みます。http:// か https:// で始まる場合は URL として扱います。
func (s *ImageSource) Load(ctx context.Context, src string) ([]byte, error) {
	if !isRemote(src) {
		return s.open(ctx, src)
	}

	// SSRF対策のバリデーション
	if err := s.validate(src); err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", src, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}

	// リダイレクト先や再解決後のアドレスも接続直前に検査する
	fetchCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	traced := httptrace.WithClientTrace(fetchCtx, &httptrace.ClientTrace{
		ConnectStart: func(network, addr string) {
			if err := s.checkAddr(addr); err != nil {
				cancel(fmt.Errorf("%w: %v", ErrUnsafeURL, err))
			}
		},
	})

	data, err := s.fetcher.FetchBytes(traced, src)
	if cause := context.Cause(fetchCtx); errors.Is(cause, ErrUnsafeURL) {
		slog.WarnContext(ctx, "接続先が制限されたネットワークのためブロックしました", "url", src, "error", cause)
		return nil, cause
	}
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	if len(data) > s.maxBytes {
		return nil, ErrSourceTooLarge
	}
	return data, nil
}

func (s *ImageSource) open(ctx context.Context, uri string) ([]byte, error) {
	rc, err := s.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, int64(s.maxBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}
	if len(data) > s.maxBytes {
		return nil, ErrSourceTooLarge
	}
	return data, nil
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// validateURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func validateURL(rawURL string) error {
	return validateURLWith(rawURL, net.LookupIP)
}

func validateURLWith(rawURL string, lookup func(string) ([]net.IP, error)) error {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("URLパース失敗: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return fmt.Errorf("ホストがありません")
	}

	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolved, err := lookup(host)
		if err != nil {
			return fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolved
	}
	if len(ips) == 0 {
		return fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if isRestrictedIP(ip) {
			return fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}
	return nil
}

// checkDialAddr は実際に接続する "IP:port" を検査します。
func checkDialAddr(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("接続先の解析に失敗: %w", err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("接続先がIPアドレスではありません: %s", host)
	}
	if isRestrictedIP(ip) {
		return fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
	}
	return nil
}

func isRestrictedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
