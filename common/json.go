package common

import (
	"bytes"
	"encoding/json"
)

func ToJsonStr(data interface{}) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return err.Error()
	}

	return string(raw)
}

/* 解析 json, 数字使用 json.Number 保留, 交给 ToDecimal 统一转化
Params:
    _raw: json 数据
    _v: 接收数据的指针
*/
func UnmarshalUseNumber(_raw []byte, _v interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(_raw))
	decoder.UseNumber()

	return decoder.Decode(_v)
}
