package di

import "testing"

func TestRegisterAndGet(t *testing.T) {
	c := NewContainer()
	c.Register("answer", 42)

	if got := c.Get("answer").(int); got != 42 {
		t.Errorf("Get = %d, want 42", got)
	}
}

func TestFactoryIsLazyAndMemoized(t *testing.T) {
	c := NewContainer()
	calls := 0
	c.RegisterFactory("svc", func(sr ServiceRegistry) any {
		calls++
		return "built"
	})

	if calls != 0 {
		t.Fatalf("factory ran before Get")
	}
	c.Get("svc")
	c.Get("svc")
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}
}

func TestFactoryResolvesDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("base", 10)
	c.RegisterFactory("derived", func(sr ServiceRegistry) any {
		return sr.Get("base").(int) * 2
	})

	if got := c.Get("derived").(int); got != 20 {
		t.Errorf("derived = %d, want 20", got)
	}
}

func TestTypedTokens(t *testing.T) {
	c := NewContainer()
	token := NewToken[string]("greeting")
	RegisterToken(c, token, func(sr ServiceRegistry) string {
		return "hello"
	})

	if got := GetToken(c, token); got != "hello" {
		t.Errorf("GetToken = %q, want hello", got)
	}
}

func TestGetUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown service")
		}
	}()
	NewContainer().Get("missing")
}
