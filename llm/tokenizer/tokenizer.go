package tokenizer

import "strings"

// Tokenizer 估算 prompt 的 token 数，仅用于追踪记录，不参与请求构造。
type Tokenizer interface {
	// CountTokens 返回给定文本的 token 数.
	CountTokens(text string) (int, error)

	// Name 返回分词器的名称.
	Name() string
}

// openAIPrefixes 列出使用 tiktoken 编码的模型前缀.
var openAIPrefixes = []string{"gpt-", "o1", "o3", "o4", "text-embedding-"}

// ForModel 返回适用于 model 的分词器。
// OpenAI 系列模型使用 tiktoken，编码不可用时退回到估算器；其余模型直接使用估算器。
func ForModel(model string) Tokenizer {
	est := NewEstimatorTokenizer()
	for _, p := range openAIPrefixes {
		if strings.HasPrefix(model, p) {
			return &fallbackTokenizer{primary: NewTiktokenTokenizer(model), secondary: est}
		}
	}
	return est
}

// fallbackTokenizer 在主分词器出错时使用备用分词器.
type fallbackTokenizer struct {
	primary   Tokenizer
	secondary Tokenizer
}

func (f *fallbackTokenizer) CountTokens(text string) (int, error) {
	if n, err := f.primary.CountTokens(text); err == nil {
		return n, nil
	}
	return f.secondary.CountTokens(text)
}

func (f *fallbackTokenizer) Name() string {
	return f.primary.Name() + "|" + f.secondary.Name()
}
