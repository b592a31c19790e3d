package common

import (
	"bytes"
	"encoding/json"
	"math"
)

// OrderedField 有序 JSON 物件的一個鍵值
type OrderedField struct {
	Key   string
	Value interface{}
}

// MarshalOrdered 依給定順序輸出 JSON 物件
func MarshalOrdered(fields []OrderedField) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Round2 四捨五入到小數點後兩位
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
