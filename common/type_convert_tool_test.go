package common

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	cases := []struct {
		data interface{}
		want float64
	}{
		{float64(42), 42},
		{"42.5", 42.5},
		{" 12 ", 12},
		{json.Number("-1"), -1},
		{int64(7), 7},
		{nil, 0},
		{"", 0},
	}

	for _, c := range cases {
		got, err := ToFloat64(c.data)
		if err != nil {
			t.Fatalf("转化 float64 失败: %#v. %v", c.data, err)
		}
		if got != c.want {
			t.Errorf("转化 float64 结果不对: %#v, 期望: %v, 实际: %v", c.data, c.want, got)
		}
	}
}

func TestToFloat64_NotNumber(t *testing.T) {
	if _, err := ToFloat64("abc"); err == nil {
		t.Errorf("非数字字符串应该返回错误")
	}
	if _, err := ToFloat64(true); err == nil {
		t.Errorf("bool 类型应该返回错误")
	}
}

func TestToInt64(t *testing.T) {
	got, err := ToInt64("15")
	if err != nil || got != 15 {
		t.Errorf("转化 int64 失败: %v, %v", got, err)
	}

	got, err = ToInt64(json.Number("3.9"))
	if err != nil || got != 3 {
		t.Errorf("小数应该被截断: %v, %v", got, err)
	}
}

func TestFormatFixed2(t *testing.T) {
	cases := map[float64]string{
		42:      "42.00",
		0:       "0.00",
		99.999:  "100.00",
		33.3333: "33.33",
		100:     "100.00",
	}

	for f, want := range cases {
		if got := FormatFixed2(f); got != want {
			t.Errorf("格式化两位小数失败: %v, 期望: %v, 实际: %v", f, want, got)
		}
	}
}
