package utils

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// Truncate は文字列を maxRunes 文字までに切り詰め、切り詰めた場合は "..." を付けます。
// マルチバイト文字の途中で切らないようルーン単位で数えます。
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
