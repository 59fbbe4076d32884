package api

import (
	"slices"
	"testing"
)

func TestParams_OrderAndEncoding(t *testing.T) {
	p := NewParams("status", "hello world", "count", 5, "trim_user", true)
	p.Set("count", 10)
	p.Set("lat", 37.78)

	if got, want := p.Keys(), []string{"status", "count", "trim_user", "lat"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := p.Encode(); got != "status=hello+world&count=10&trim_user=true&lat=37.78" {
		t.Errorf("Encode() = %q", got)
	}
	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}

	if v, ok := p.Get("count"); !ok || v != "10" {
		t.Errorf("Get(count) = %q, %v", v, ok)
	}
	if got := p.Values().Get("status"); got != "hello world" {
		t.Errorf("Values().Get(status) = %q", got)
	}
}

func TestParams_DelCloneMerge(t *testing.T) {
	p := NewParams("a", 1, "b", 2, "c", 3)
	c := p.Clone()

	v, ok := c.Del("b")
	if !ok || v != "2" {
		t.Fatalf("Del(b) = %q, %v", v, ok)
	}
	if _, ok := c.Del("missing"); ok {
		t.Error("Del(missing) reported a removal")
	}

	if got := c.Encode(); got != "a=1&c=3" {
		t.Errorf("clone Encode() = %q", got)
	}
	if got := p.Encode(); got != "a=1&b=2&c=3" {
		t.Errorf("clone must be independent, original = %q", got)
	}

	c.Merge(NewParams("c", 30, "d", 4))
	if got := c.Encode(); got != "a=1&c=30&d=4" {
		t.Errorf("merged Encode() = %q", got)
	}
}

func TestParams_ZeroValue(t *testing.T) {
	var p Params
	if p.Len() != 0 || p.Encode() != "" || p.Has("x") || len(p.Map()) != 0 {
		t.Errorf("zero Params should be empty: %+v", p)
	}

	p.Set("x", "y")
	if got := p.Encode(); got != "x=y" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestNewParams_OddArgs(t *testing.T) {
	p := NewParams("a", 1, "dangling")
	if got := p.Keys(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Keys() = %v, want [a]", got)
	}
}

func TestIdentifier(t *testing.T) {
	id := UserID(813286)
	if !id.IsNumeric() || id.ID() != 813286 || id.String() != "813286" {
		t.Errorf("UserID = %+v", id)
	}

	name := ScreenName("sferik")
	if name.IsNumeric() || name.ScreenName() != "sferik" || name.String() != "sferik" {
		t.Errorf("ScreenName = %+v", name)
	}

	if got := NewParams("id", id, "screen_name", name).Encode(); got != "id=813286&screen_name=sferik" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want Identifier
	}{
		{"813286", UserID(813286)},
		{" 42 ", UserID(42)},
		{"@42", ScreenName("42")},
		{"@jack", ScreenName("jack")},
		{"jack", ScreenName("jack")},
		{"-5", ScreenName("-5")},
		{"12abc", ScreenName("12abc")},
	}
	for _, tt := range tests {
		if got := ParseIdentifier(tt.in); got != tt.want {
			t.Errorf("ParseIdentifier(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestResourcePath(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{resourcePath("help", "test"), "/1/help/test.json"},
		{resourcePath("statuses", "show", int64(20)), "/1/statuses/show/20.json"},
		{resourcePath("users", "show", ScreenName("jack")), "/1/users/show/jack.json"},
		{resourcePath("direct_messages"), "/1/direct_messages.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("resourcePath() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRequestOptions_Body(t *testing.T) {
	var nilOpts *RequestOptions
	if nilOpts.EncodedBody() != nil || nilOpts.ContentType() != "" {
		t.Error("nil options should have no body")
	}

	form := bodyOptions(NewParams("status", "hi"))
	if string(form.EncodedBody()) != "status=hi" || form.ContentType() != "application/x-www-form-urlencoded" {
		t.Errorf("form body = %q (%s)", form.EncodedBody(), form.ContentType())
	}

	query := queryOptions(NewParams("count", 1))
	if query.EncodedBody() != nil || query.ContentType() != "" {
		t.Errorf("query options should carry no body, got %q", query.EncodedBody())
	}

	raw := &RequestOptions{Body: NewParams("ignored", 1), Payload: []byte("--b--"), Headers: map[string]string{"Content-Type": "multipart/form-data; boundary=b"}}
	if string(raw.EncodedBody()) != "--b--" {
		t.Errorf("payload should win over the form body, got %q", raw.EncodedBody())
	}
	if got := raw.ContentType(); got != "multipart/form-data; boundary=b" {
		t.Errorf("ContentType() = %q", got)
	}
}
