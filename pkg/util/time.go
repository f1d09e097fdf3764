package util

import (
	"strconv"
	"strings"
	"time"
)

// SnapshotLayout timestamp layout used in backup snapshot keys
// SnapshotLayout 备份快照键中的时间格式
const SnapshotLayout = "20060102150405"

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// 纯数字按秒处理
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// SnapshotStamp formats t for a snapshot key
// SnapshotStamp 将时间格式化为快照键后缀
func SnapshotStamp(t time.Time) string {
	return t.Format(SnapshotLayout)
}
