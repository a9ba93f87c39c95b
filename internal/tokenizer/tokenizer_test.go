package tokenizer

import "testing"

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesBinary(t *testing.T) {
	testCases := map[string][]byte{
		"nul bytes":     {0x00, 0x01, 0x02},
		"invalid utf-8": {0xff, 0xfe, 'a'},
	}
	for name, data := range testCases {
		result, err := CountBytes(testCounter{}, data)
		if err != nil {
			t.Fatalf("%s: CountBytes error: %v", name, err)
		}
		if result.Counted {
			t.Fatalf("%s: expected data to be skipped", name)
		}
	}
}

func TestCountTexts(t *testing.T) {
	total, err := CountTexts(testCounter{}, []string{"ab", "cde", "\x00"})
	if err != nil {
		t.Fatalf("CountTexts error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected 5 tokens, got %d", total)
	}
	if _, err := CountTexts(nil, []string{"a"}); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	testCases := map[string]bool{
		"gpt-4o":                 true,
		"text-embedding-3-small": true,
		"claude-3-5-sonnet":      false,
		"llama-3":                false,
	}
	for model, expected := range testCases {
		if isOpenAIModel(model) != expected {
			t.Fatalf("model %s: expected %t", model, expected)
		}
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Skipf("tokenizer encoding unavailable: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestEncodingCounterCountsSpecialTokensAsText(t *testing.T) {
	counter, _, err := NewCounter(Config{Model: "claude-3-5-sonnet"})
	if err != nil {
		t.Skipf("tokenizer encoding unavailable: %v", err)
	}
	if counter.Name() != defaultEncodingName {
		t.Fatalf("expected fallback encoding %s, got %s", defaultEncodingName, counter.Name())
	}
	tokens, err := counter.CountString("// <|endoftext|>")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens < 2 {
		t.Fatalf("expected the marker to be split into text tokens, got %d", tokens)
	}
}

func TestEncodingCounterWithoutEncoding(t *testing.T) {
	if _, err := (encodingCounter{name: "empty"}).CountString("hello"); err == nil {
		t.Fatalf("expected error for missing encoding")
	}
}
