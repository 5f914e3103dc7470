package domain

import (
	"bytes"
	"encoding/json"
)

// Columns 部分更新：列名 -> 新值，只包含请求里出现的字段；值为 nil 写 NULL
type Columns map[string]any

// Optional 区分三种状态：未携带（Set=false）、显式 null（Set=true, Value=nil）、有值
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some 有值
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

// Null 显式 null
func Null[T any]() Optional[T] { return Optional[T]{Set: true} }

// IsNull 携带了该字段且为 null
func (o Optional[T]) IsNull() bool { return o.Set && o.Value == nil }

// UnmarshalJSON 只有 key 出现时才会被调用
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// setOptional 未携带跳过；null 写 NULL
func setOptional[T any](cols Columns, col string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		cols[col] = nil
		return
	}
	cols[col] = *o.Value
}
