package userctx

import (
	"context"
	"testing"
)

func TestCanAccess(t *testing.T) {
	anon := context.Background()
	user := WithUserID(anon, "u1")
	admin := WithRole(WithUserID(anon, "root"), RoleAdmin)

	cases := []struct {
		name string
		ctx  context.Context
		id   string
		want bool
	}{
		{"anonymous passes", anon, "u1", true},
		{"own data", user, "u1", true},
		{"foreign data", user, "u2", false},
		{"admin sees all", admin, "u2", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccess(tc.ctx, tc.id); got != tc.want {
				t.Errorf("CanAccess(%q) = %t, want %t", tc.id, got, tc.want)
			}
		})
	}
}

func TestGetUserIDEmpty(t *testing.T) {
	if _, ok := GetUserID(WithUserID(context.Background(), "")); ok {
		t.Fatal("empty user id must not count as authenticated")
	}
}
