package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
)

const TIME_LAYOUT = "2006-01-02 15:04:05"

// 后端返回的时间格式不固定: 毫秒时间戳 或者 格式化后的字符串
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000+0000",
	"2006-01-02T15:04:05",
	TIME_LAYOUT,
}

type JsonTime struct {
	Time  time.Time
	Valid bool // 为 false 时表示后端没有返回该时间(null)
}

func NewJsonTime(t time.Time) JsonTime {
	return JsonTime{Time: t, Valid: true}
}

func (this *JsonTime) UnmarshalJSON(_raw []byte) error {
	raw := bytes.TrimSpace(_raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*this = JsonTime{}
		return nil
	}

	// 毫秒时间戳
	if raw[0] != '"' {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return errors.Annotatef(err, "时间戳格式不正确: %s", raw)
		}
		*this = NewJsonTime(time.UnixMilli(ms))
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return errors.Trace(err)
	}
	str = strings.TrimSpace(str)
	if str == "" {
		*this = JsonTime{}
		return nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, str, time.Local); err == nil {
			*this = NewJsonTime(t)
			return nil
		}
	}

	return errors.NotValidf("时间格式 %#v", str)
}

func (this JsonTime) MarshalJSON() ([]byte, error) {
	if !this.Valid {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatInt(this.Time.UnixMilli(), 10)), nil
}

// 没有时间显示 "-"
func (this JsonTime) Format() string {
	if !this.Valid {
		return "-"
	}

	return this.Time.Local().Format(TIME_LAYOUT)
}
