package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"user":  map[string]any{"name": "Ada"},
		"items": []any{map[string]any{"price": 1500000.0}},
		"empty": nil,
	}
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${ user.name }", "Ada"},
		{"价格 ${items[0].price}", "价格 1500000"},
		{"${user.age}", "${user.age}"},
		{"${user.age|未知}", "未知"},
		{"${empty|-}", "-"},
		{"${items[3].price}", "${items[3].price}"},
		{"${items[x]}", "${items[x]}"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("${a.b|默认}", nil); got != "默认" {
		t.Fatalf("无数据时应使用默认值，实际 %q", got)
	}
	if got := Interpolate("${a.b}", nil); got != "${a.b}" {
		t.Fatalf("无数据且无默认值时应保留占位符，实际 %q", got)
	}
}
