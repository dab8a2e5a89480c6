package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	type payload struct {
		Result float64 `json:"result"`
		OK     bool    `json:"ok"`
	}
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "hello", want: "hello"},
		{name: "schema string", in: String("你好"), want: "你好"},
		{name: "schema string pointer", in: NewString("ptr"), want: "ptr"},
		{name: "struct", in: payload{Result: 4, OK: true}, want: `{"result":4,"ok":true}`},
		{name: "number", in: 2.5, want: "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	_, ok := UserFromContext(ctx)
	assert.False(t, ok)

	user := UserInfo{UserID: "ID001", UserName: "张三"}
	got, ok := UserFromContext(WithUser(ctx, user))
	assert.True(t, ok)
	assert.Equal(t, user, got)
}
