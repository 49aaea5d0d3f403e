package numfmt

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestLocaleState(t *testing.T) {
	state := NewLocaleState("en_us", "EN-US", " ", "de")
	if got, want := state.Locales(), []string{"en-US", "de"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Locales() = %v want %v", got, want)
	}
	if state.Primary() != "en-US" {
		t.Fatalf("Primary() = %q", state.Primary())
	}

	locales := state.Locales()
	locales[0] = "mutated"
	if state.Primary() != "en-US" {
		t.Fatal("Locales() must return a copy")
	}

	state.SetLocale()
	if state.Locales() != nil || state.Primary() != "" {
		t.Fatalf("cleared state = %v", state.Locales())
	}

	var nilState *LocaleState
	nilState.SetLocale("fr")
	if nilState.Locales() != nil || nilState.Primary() != "" {
		t.Fatal("nil state should report no locales")
	}
}

func TestLocaleStateConcurrent(t *testing.T) {
	state := NewLocaleState("en")
	resolver := newTestResolver(t, WithResolverLocaleProvider(state))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				state.SetLocale("de")
			} else {
				state.SetLocale("en")
			}
		}(i)
		go func() {
			defer wg.Done()
			out, err := resolver.Format(FormatRequest{Value: Float(1000)})
			if err != nil {
				t.Errorf("Format: %v", err)
				return
			}
			if out != "1,000" && out != "1.000" {
				t.Errorf("unexpected output %q", out)
			}
		}()
	}
	wg.Wait()
}

func TestLocaleProviders(t *testing.T) {
	static := StaticLocales{"fr", "en"}
	got := static.Locales()
	got[0] = "xx"
	if static[0] != "fr" {
		t.Fatal("StaticLocales.Locales must return a copy")
	}
	if (StaticLocales{}).Locales() != nil {
		t.Fatal("empty StaticLocales should return nil")
	}

	calls := 0
	fn := LocaleProviderFunc(func() []string {
		calls++
		return []string{"it"}
	})
	fn.Locales()
	fn.Locales()
	if calls != 2 {
		t.Fatalf("LocaleProviderFunc called %d times", calls)
	}

	var nilFn LocaleProviderFunc
	if nilFn.Locales() != nil {
		t.Fatal("nil LocaleProviderFunc should return nil")
	}
}

func TestContextLocales(t *testing.T) {
	ctx := WithLocale(context.Background(), "pt_br", "pt-BR", "en")
	if got, want := LocalesFromContext(ctx), []string{"pt-BR", "en"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("LocalesFromContext = %v want %v", got, want)
	}
	if LocalesFromContext(context.Background()) != nil {
		t.Fatal("empty context should carry no locales")
	}
	//nolint:staticcheck // nil context is handled explicitly
	if LocalesFromContext(nil) != nil {
		t.Fatal("nil context should carry no locales")
	}

	resolver := newTestResolver(t)
	out, err := resolver.FormatContext(ctx, FormatRequest{Value: Float(1000)})
	if err != nil {
		t.Fatalf("FormatContext: %v", err)
	}
	if out != "1.000" {
		t.Fatalf("FormatContext = %q want 1.000", out)
	}
}

func TestLocaleHelpers(t *testing.T) {
	tests := []struct {
		in        string
		canonical string
		base      string
	}{
		{in: "de_de", canonical: "de-DE", base: "de"},
		{in: " EN-us ", canonical: "en-US", base: "en"},
		{in: "pt-br", canonical: "pt-BR", base: "pt"},
		{in: "", canonical: "", base: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := canonicalLocale(tt.in)
			if got != tt.canonical {
				t.Fatalf("canonicalLocale(%q) = %q want %q", tt.in, got, tt.canonical)
			}
			if got == "" {
				return
			}
			if base := baseLanguage(got); base != tt.base {
				t.Fatalf("baseLanguage(%q) = %q want %q", got, base, tt.base)
			}
		})
	}

	chainTests := []struct {
		tag  string
		want []string
	}{
		{tag: "en-IN", want: []string{"en-IN", "en-001", "en"}},
		{tag: "de-CH", want: []string{"de-CH", "de"}},
		{tag: "pt-BR", want: []string{"pt-BR", "pt"}},
		{tag: "en", want: []string{"en"}},
		{tag: "abcdefghi-foo", want: []string{"abcdefghi-foo", "abcdefghi"}},
	}
	for _, tt := range chainTests {
		if got := lookupChain(tt.tag); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("lookupChain(%q) = %v want %v", tt.tag, got, tt.want)
		}
	}
	if got, want := sortedLocales([]string{"fr", "de", "de"}), []string{"de", "fr"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sortedLocales = %v want %v", got, want)
	}
}
