package autocomplete

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

const testDelay = 20 * time.Millisecond

func newTestAutocompleter(t *testing.T) (*Autocompleter, chan []string) {
	t.Helper()
	updates := make(chan []string, 10)
	a := New(NewJournalCache(journals),
		WithDelay(testDelay),
		WithCallback(func(s []string) { updates <- s }),
	)
	t.Cleanup(a.Cancel)
	return a, updates
}

func waitUpdate(t *testing.T, updates chan []string) []string {
	t.Helper()
	select {
	case s := <-updates:
		return s
	case <-time.After(time.Second):
		t.Fatal("no suggestion update")
		return nil
	}
}

func expectNoUpdate(t *testing.T, updates chan []string) {
	t.Helper()
	select {
	case s := <-updates:
		t.Errorf("unexpected update %v", s)
	case <-time.After(5 * testDelay):
	}
}

func TestAutocompleter_PrefixAfterDelay(t *testing.T) {
	a, updates := newTestAutocompleter(t)
	a.Update("Nat")

	if got := a.Suggestions(); got != nil {
		t.Errorf("suggestions before delay = %v", got)
	}
	want := []string{"Nature", "Naturwissenschaften"}
	if got := waitUpdate(t, updates); !reflect.DeepEqual(got, want) {
		t.Errorf("update = %v, want %v", got, want)
	}
	if got := a.Suggestions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Suggestions() = %v, want %v", got, want)
	}
}

func TestAutocompleter_SelfMatchSuppressed(t *testing.T) {
	a, updates := newTestAutocompleter(t)
	a.Update("Science")
	if got := waitUpdate(t, updates); len(got) != 0 {
		t.Errorf("update = %v, want no suggestions", got)
	}
}

func TestAutocompleter_OnlyLastInputResolves(t *testing.T) {
	a, updates := newTestAutocompleter(t)
	for _, s := range []string{"S", "N", "Na", "Nat", "Natu", "Naturw"} {
		a.Update(s)
	}

	if got := waitUpdate(t, updates); !reflect.DeepEqual(got, []string{"Naturwissenschaften"}) {
		t.Errorf("update = %v, want [Naturwissenschaften]", got)
	}
	expectNoUpdate(t, updates)
}

func TestAutocompleter_EmptyInputClears(t *testing.T) {
	a, updates := newTestAutocompleter(t)
	a.Update("Nat")
	waitUpdate(t, updates)

	a.Update("Sci")
	a.Update("")
	if got := waitUpdate(t, updates); got != nil {
		t.Errorf("update for empty input = %v", got)
	}
	if got := a.Suggestions(); got != nil {
		t.Errorf("Suggestions() = %v after clearing", got)
	}
	expectNoUpdate(t, updates)
}

func TestAutocompleter_CancelKeepsSuggestions(t *testing.T) {
	a, updates := newTestAutocompleter(t)
	a.Update("Nat")
	waitUpdate(t, updates)

	a.Update("Sci")
	a.Cancel()
	expectNoUpdate(t, updates)
	if got := a.Suggestions(); len(got) != 2 {
		t.Errorf("Suggestions() = %v, want the earlier Nature results", got)
	}
}

func TestNew_DefaultDelay(t *testing.T) {
	if a := New(NewJournalCache(nil)); a.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", a.delay, DefaultDelay)
	}
}

func TestAutocompleter_FlushResolvesPendingInput(t *testing.T) {
	var got [][]string
	a := New(NewJournalCache(journals),
		WithDelay(time.Hour),
		WithCallback(func(s []string) { got = append(got, s) }),
	)
	a.Update("Na")
	a.Update("Nat")
	a.Flush()

	want := [][]string{{"Nature", "Naturwissenschaften"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates after Flush = %v, want %v", got, want)
	}
	if s := a.Suggestions(); !reflect.DeepEqual(s, want[0]) {
		t.Errorf("Suggestions() = %v, want %v", s, want[0])
	}

	a.Flush()
	if len(got) != 1 {
		t.Errorf("second Flush published %d more updates", len(got)-1)
	}
}

func TestAutocompleter_ClearingWinsOverLookupInDelivery(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	var mu sync.Mutex
	var got [][]string
	a := New(NewJournalCache(journals),
		WithDelay(testDelay),
		WithCallback(func(s []string) {
			if s != nil {
				entered <- struct{}{}
				<-gate
			}
			mu.Lock()
			got = append(got, s)
			mu.Unlock()
		}),
	)
	t.Cleanup(a.Cancel)

	a.Update("Nat")
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("lookup never delivered")
	}

	cleared := make(chan struct{})
	go func() {
		a.Update("")
		close(cleared)
	}()
	time.Sleep(5 * testDelay)
	close(gate)

	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("Update(\"\") did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[1] != nil {
		t.Errorf("deliveries = %v, want the lookup followed by the clear", got)
	}
	if s := a.Suggestions(); s != nil {
		t.Errorf("Suggestions() = %v, want nil", s)
	}
}
