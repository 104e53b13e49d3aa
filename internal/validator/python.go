package validator

import "strings"

// PythonValidator 校验 Python 提交
type PythonValidator struct{}

func (PythonValidator) Validate(submitted, reference string) Result {
	codeLower := strings.ToLower(submitted)
	refLower := strings.ToLower(reference)

	if len(meaningfulLines(submitted, "#")) < 2 {
		return reject(
			"你的代码太短了",
			"请写出更完整的解答（至少两行）",
			"代码应当包含几行有效逻辑。",
		)
	}

	if strings.Contains(reference, "def ") && !strings.Contains(submitted, "def ") {
		return reject(
			"你的代码需要定义一个函数",
			"参考解法使用了函数，请用 def 函数名(): 的形式定义",
			"用 def 定义一个函数。",
		)
	}

	if containsAny(refLower, "for ", "while ") && !containsAny(codeLower, "for ", "while ") {
		return reject(
			"你的代码需要一个循环",
			"使用 for 或 while 编写循环",
			"参考解法使用了循环。",
		)
	}

	if strings.Contains(refLower, "if ") && !strings.Contains(codeLower, "if ") {
		return reject(
			"你的代码需要条件判断",
			"使用 if 添加条件逻辑",
			"参考解法使用了 if 条件。",
		)
	}

	if strings.Contains(refLower, "print") && !strings.Contains(codeLower, "print") {
		return reject(
			"你的代码需要输出结果",
			"使用 print() 打印结果",
			"参考解法使用了 print()。",
		)
	}

	if containsAny(submitted, "if", "for", "while", "return", "print") {
		return accept("很好！你的 Python 解答通过了检查", "代码结构正确且完整。")
	}

	return reject(
		"解答看起来还不完整",
		"检查是否实现了全部必要的逻辑",
		"试着补充更多代码或逻辑。",
	)
}
