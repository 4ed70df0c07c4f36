package common

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

/* 将后端返回的数值字段转化成 float64
后端返回的统计字段有时是数字, 有时是数字字符串, 统一在这里转化.
Params:
    _data: json 解析出来的值(float64, json.Number, string, int...)
*/
func ToFloat64(_data interface{}) (float64, error) {
	dec, err := ToDecimal(_data)
	if err != nil {
		return 0, err
	}

	f, _ := dec.Float64()
	return f, nil
}

/* 将后端返回的计数字段转化成 int64, 小数部分直接截断
Params:
    _data: json 解析出来的值
*/
func ToInt64(_data interface{}) (int64, error) {
	dec, err := ToDecimal(_data)
	if err != nil {
		return 0, err
	}

	return dec.IntPart(), nil
}

/* 转化成 decimal, 其他转化方法都基于它
Params:
    _data: json 解析出来的值
*/
func ToDecimal(_data interface{}) (decimal.Decimal, error) {
	switch value := _data.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(value), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int32:
		return decimal.NewFromInt32(value), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case json.Number:
		return parseDecimalStr(value.String())
	case string:
		return parseDecimalStr(value)
	}

	return decimal.Zero, errors.NotValidf("数值类型 %T(%v) %v", _data, _data, CurrLine())
}

func parseDecimalStr(_str string) (decimal.Decimal, error) {
	str := strings.TrimSpace(_str)
	if str == "" {
		return decimal.Zero, nil
	}

	dec, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, errors.Annotatef(err, "数值字符串 %#v 无法解析 %v", _str, CurrLine())
	}

	return dec, nil
}

/* 保留两位小数, 用于百分比展示
Params:
    _f: 需要格式化的值
*/
func FormatFixed2(_f float64) string {
	return decimal.NewFromFloat(_f).StringFixed(2)
}
