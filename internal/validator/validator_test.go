package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForLanguage(t *testing.T) {
	assert.IsType(t, PythonValidator{}, ForLanguage("python"))
	assert.IsType(t, JavaScriptValidator{}, ForLanguage("javascript"))
	assert.IsType(t, JavaScriptValidator{}, ForLanguage("typescript"))
	assert.IsType(t, JavaScriptValidator{}, ForLanguage("js"))
	assert.IsType(t, CPPValidator{}, ForLanguage("cpp"))
	assert.IsType(t, CPPValidator{}, ForLanguage("c++"))
	assert.IsType(t, JavaValidator{}, ForLanguage("java"))
	assert.IsType(t, CValidator{}, ForLanguage("c"))
	assert.IsType(t, SQLValidator{}, ForLanguage("sql"))
	assert.IsType(t, MarkupValidator{}, ForLanguage("html"))
	assert.IsType(t, MarkupValidator{}, ForLanguage("css"))
	assert.IsType(t, GenericValidator{}, ForLanguage("ruby"))
	assert.IsType(t, GenericValidator{}, ForLanguage(""))
	assert.IsType(t, PythonValidator{}, ForLanguage(" Python "))
}

func TestPythonValidator(t *testing.T) {
	v := PythonValidator{}
	reference := "def greet(name):\n    if name:\n        print('Hello', name)\n"

	t.Run("rejects code with fewer than two meaningful lines", func(t *testing.T) {
		res := v.Validate("# comment only\nprint('hi')", reference)
		assert.False(t, res.IsCorrect)
		assert.NotEmpty(t, res.Hint)
	})

	t.Run("requires a function when reference defines one", func(t *testing.T) {
		res := v.Validate("x = 1\nprint(x)", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "def")
	})

	t.Run("requires a conditional when reference has one", func(t *testing.T) {
		res := v.Validate("def greet(name):\n    print('Hello', name)", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "if")
	})

	t.Run("requires print when reference prints", func(t *testing.T) {
		res := v.Validate("def greet(name):\n    if name:\n        return name", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "print")
	})

	t.Run("accepts a structurally complete solution", func(t *testing.T) {
		res := v.Validate("def greet(n):\n    if n:\n        print('Hi', n)", reference)
		assert.True(t, res.IsCorrect)
		assert.Empty(t, res.Hint)
	})

	t.Run("requires a loop when reference loops", func(t *testing.T) {
		loopRef := "for i in range(10):\n    print(i)\n"
		res := v.Validate("print(0)\nprint(1)", loopRef)
		assert.False(t, res.IsCorrect)

		res = v.Validate("i = 0\nwhile i < 10:\n    print(i)\n    i += 1", loopRef)
		assert.True(t, res.IsCorrect)
	})
}

func TestJavaScriptValidator(t *testing.T) {
	v := JavaScriptValidator{}

	t.Run("requires a function when reference has one", func(t *testing.T) {
		res := v.Validate("1 + 1;\n2 + 2;", "const add = (a, b) => a + b;")
		assert.False(t, res.IsCorrect)
	})

	t.Run("array methods satisfy a loop requirement", func(t *testing.T) {
		reference := "const out = [];\nfor (const n of nums) { out.push(n * 2); }"
		res := v.Validate("const out = nums.map(n => n * 2);\nconsole.log(out);", reference)
		assert.True(t, res.IsCorrect)
	})

	t.Run("browser APIs are accepted and noted in feedback", func(t *testing.T) {
		reference := "function ask() { return prompt('name?'); }"
		res := v.Validate("function ask() {\n  return prompt('name?');\n}", reference)
		assert.True(t, res.IsCorrect)
		assert.Contains(t, res.Feedback, "浏览器 API")
	})

	t.Run("rejects code with fewer than two meaningful lines", func(t *testing.T) {
		res := v.Validate("// nothing\nlet x = 1;", "let x = 1;\nlet y = 2;")
		assert.False(t, res.IsCorrect)
	})
}

func TestCPPValidator(t *testing.T) {
	v := CPPValidator{}
	reference := "#include <iostream>\nint main() {\n  std::cout << \"hi\";\n  return 0;\n}"

	t.Run("rejects code without includes", func(t *testing.T) {
		res := v.Validate("int main() {\n  std::cout << 1;\n  return 0;\n}", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "#include")
	})

	t.Run("requires main when reference has it", func(t *testing.T) {
		res := v.Validate("#include <iostream>\nvoid run() {\n  std::cout << 1;\n}", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "int main()")
	})

	t.Run("accepts a complete program", func(t *testing.T) {
		res := v.Validate("#include <iostream>\nint main() {\n  std::cout << \"hi\";\n  return 0;\n}", reference)
		assert.True(t, res.IsCorrect)
	})
}

func TestJavaValidator(t *testing.T) {
	v := JavaValidator{}
	reference := "public class Main {\n  public static void main(String[] args) {\n    System.out.println(\"hi\");\n  }\n}"

	t.Run("rejects code without a class", func(t *testing.T) {
		res := v.Validate("int x = 1;\nint y = 2;\nSystem.out.println(x + y);", reference)
		assert.False(t, res.IsCorrect)
	})

	t.Run("requires main when reference has it", func(t *testing.T) {
		res := v.Validate("public class Main {\n  void run() {\n    System.out.println(1);\n  }\n}", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "public static void main")
	})

	t.Run("accepts a complete program", func(t *testing.T) {
		code := "public class Main {\n  public static void main(String[] args) {\n    System.out.println(\"hi\");\n  }\n}"
		res := v.Validate(code, reference)
		assert.True(t, res.IsCorrect)
	})
}

func TestCValidator(t *testing.T) {
	v := CValidator{}
	reference := "#include <stdio.h>\nint main() {\n  printf(\"hi\");\n  return 0;\n}"

	t.Run("requires printf when reference prints", func(t *testing.T) {
		res := v.Validate("#include <stdio.h>\nint main() {\n  return 0;\n}", reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "printf")
	})

	t.Run("accepts a complete program", func(t *testing.T) {
		res := v.Validate("#include <stdio.h>\nint main() {\n  printf(\"hi\");\n  return 0;\n}", reference)
		assert.True(t, res.IsCorrect)
	})
}

func TestSQLValidator(t *testing.T) {
	v := SQLValidator{}

	t.Run("rejects text without any SQL keyword", func(t *testing.T) {
		res := v.Validate("show me all users please", "SELECT * FROM users;")
		assert.False(t, res.IsCorrect)
	})

	t.Run("select query needs FROM when reference uses it", func(t *testing.T) {
		res := v.Validate("SELECT name, email", "SELECT name FROM users;")
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Hint, "FROM")
	})

	t.Run("requires WHERE and JOIN when reference uses them", func(t *testing.T) {
		reference := "SELECT u.name FROM users u JOIN orders o ON o.user_id = u.id WHERE o.total > 10;"
		res := v.Validate("SELECT u.name FROM users u", reference)
		assert.False(t, res.IsCorrect)

		res = v.Validate("SELECT u.name FROM users u JOIN orders o ON o.user_id = u.id WHERE o.total > 10", reference)
		assert.True(t, res.IsCorrect)
	})

	t.Run("keyword match alone is not enough for a trivial query", func(t *testing.T) {
		res := v.Validate("SELECT 1", "SELECT 1;")
		assert.False(t, res.IsCorrect)
	})

	t.Run("lowercase submission is accepted", func(t *testing.T) {
		res := v.Validate("select name from users", "SELECT name FROM users;")
		assert.True(t, res.IsCorrect)
	})
}

func TestMarkupValidator(t *testing.T) {
	v := MarkupValidator{}
	reference := "<html><head><title>t</title></head><body><h1>hi</h1><p>text</p></body></html>"

	t.Run("accepts when all tags are present", func(t *testing.T) {
		res := v.Validate(reference, reference)
		assert.True(t, res.IsCorrect)
	})

	t.Run("accepts up to two missing tags with a note", func(t *testing.T) {
		submitted := "<html><head><title>t</title></head><body><p>text</p></body></html>"
		res := v.Validate(submitted, reference)
		assert.True(t, res.IsCorrect)
		assert.Contains(t, res.Feedback, "h1")
	})

	t.Run("rejects when more than two tags are missing", func(t *testing.T) {
		res := v.Validate("<p>text</p>", reference)
		assert.False(t, res.IsCorrect)
		assert.NotEmpty(t, res.Hint)
	})

	t.Run("hint names at most three missing tags", func(t *testing.T) {
		res := v.Validate("<div></div>", reference)
		assert.False(t, res.IsCorrect)
		named := strings.Count(res.Hint, "、") + 1
		assert.LessOrEqual(t, named, 3)
	})
}

func TestGenericValidator(t *testing.T) {
	v := GenericValidator{}

	t.Run("rejects very short submissions", func(t *testing.T) {
		res := v.Validate("x = 1", "some longer reference solution body")
		assert.False(t, res.IsCorrect)
	})

	t.Run("accepts near-identical submissions", func(t *testing.T) {
		reference := "puts [1, 2, 3].map { |n| n * 2 }.sum"
		res := v.Validate("puts [1, 2, 3].map { |n| n * 2 }.sum", reference)
		assert.True(t, res.IsCorrect)
	})

	t.Run("reports percentage when close but not matching", func(t *testing.T) {
		// 16 个字符中 10 个相同，相似度 0.625
		reference := strings.Repeat("a", 16)
		submitted := strings.Repeat("a", 10) + strings.Repeat("b", 6)
		res := v.Validate(submitted, reference)
		assert.False(t, res.IsCorrect)
		assert.Contains(t, res.Feedback, "62%")
	})

	t.Run("rejects unrelated submissions", func(t *testing.T) {
		res := v.Validate("completely different answer here", "puts [1, 2, 3].map { |n| n * 2 }.sum")
		assert.False(t, res.IsCorrect)
		assert.NotContains(t, res.Feedback, "%")
	})
}

func TestPositionalSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, positionalSimilarity("abcd", "abcd"))
	assert.Equal(t, 0.0, positionalSimilarity("", "abcd"))
	assert.Equal(t, 0.0, positionalSimilarity("abcd", ""))
	// 一半字符相同
	assert.InDelta(t, 0.5, positionalSimilarity("abxx", "abcd"), 1e-9)
	// 分母取参考文本长度，提交偏长不加分
	assert.InDelta(t, 1.0, positionalSimilarity("abcdzz", "abcd"), 1e-9)
}

func TestMeaningfulLines(t *testing.T) {
	code := "# note\n\nx = 1\n  # indented note\ny = 2\n"
	lines := meaningfulLines(code, "#")
	assert.Equal(t, []string{"x = 1", "y = 2"}, lines)
}
