package source

// WithLineReader returns a copy of picker whose prompt answers with answer and err.
func WithLineReader(picker PromptPicker, answer string, err error) PromptPicker {
	picker.newReader = func(PromptPicker) lineReader {
		return stubLineReader{answer: answer, err: err}
	}
	return picker
}

type stubLineReader struct {
	answer string
	err    error
}

func (reader stubLineReader) Run() (string, error) {
	return reader.answer, reader.err
}
