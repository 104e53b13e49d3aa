package validator

import "strings"

// JavaScriptValidator 校验 JavaScript/TypeScript 提交。
// 浏览器 API（alert、document 等）视为合法用法，只在反馈中注明
type JavaScriptValidator struct{}

func (JavaScriptValidator) Validate(submitted, reference string) Result {
	codeLower := strings.ToLower(submitted)
	refLower := strings.ToLower(reference)

	hasFunction := containsAny(submitted, "function", "=>", "const", "let", "var")
	hasLogic := containsAny(submitted, "if", "for", "while", "return", "console.log", "alert", "prompt")
	hasArrayMethod := containsAny(submitted, ".map", ".filter", ".reduce", ".forEach")
	usesBrowserAPI := containsAny(codeLower, "alert", "prompt", "confirm", "document.", "window.")

	if containsAny(reference, "function", "=>") && !hasFunction {
		return reject(
			"你的代码需要定义一个函数",
			"参考解法使用了函数，用 function 或 => 来定义",
			"用 function 或箭头函数创建一个函数。",
		)
	}

	if containsAny(refLower, "for", "while", ".map", ".foreach") &&
		!containsAny(codeLower, "for", "while", ".map", ".foreach", ".filter", ".reduce") {
		return reject(
			"你的代码需要循环或数组方法",
			"使用 for、while，或 .map()、.forEach() 这类数组方法",
			"参考解法使用了迭代。",
		)
	}

	if strings.Contains(refLower, "if") && !strings.Contains(codeLower, "if") {
		return reject(
			"你的代码需要条件判断",
			"使用 if 添加条件逻辑",
			"参考解法使用了 if 条件。",
		)
	}

	if len(meaningfulLines(submitted, "//")) < 2 {
		return reject(
			"你的代码太短了",
			"请写出更完整的解答",
			"代码应当包含几行有效逻辑。",
		)
	}

	if hasFunction || hasLogic || hasArrayMethod {
		feedback := "代码结构正确且完整。"
		if usesBrowserAPI {
			feedback += "注意：使用了浏览器 API（alert、prompt 等），前端代码中这是正常的。"
		}
		return accept("很好！你的 JavaScript 解答通过了检查", feedback)
	}

	return reject(
		"JavaScript 解答看起来还不完整",
		"检查是否实现了全部必要的逻辑",
		"试着补充更多代码或逻辑。",
	)
}
