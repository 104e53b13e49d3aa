package validator

import "strings"

// CPPValidator 校验 C++ 提交
type CPPValidator struct{}

func (CPPValidator) Validate(submitted, reference string) Result {
	codeLower := strings.ToLower(submitted)
	refLower := strings.ToLower(reference)

	if len(meaningfulLines(submitted, "//")) < 3 {
		return reject(
			"你的代码太短了",
			"一个 C++ 程序至少需要 #include、main 和具体逻辑",
			"请写出完整的 C++ 程序。",
		)
	}

	if !strings.Contains(submitted, "#include") {
		return reject(
			"你的代码需要包含头文件",
			"添加 #include <iostream> 或其他需要的头文件",
			"C++ 程序以 #include 开头。",
		)
	}

	if strings.Contains(refLower, "int main") && !strings.Contains(submitted, "int main") {
		return reject(
			"你的代码需要 main 函数",
			"添加 int main() { ... }",
			"main 函数是程序的入口。",
		)
	}

	if strings.Contains(refLower, "cout") && !strings.Contains(codeLower, "cout") {
		return reject(
			"你的代码需要输出结果",
			"使用 cout << 打印结果",
			"参考解法使用了 cout。",
		)
	}

	if containsAny(refLower, "for", "while") && !containsAny(codeLower, "for", "while") {
		return reject(
			"你的代码需要一个循环",
			"使用 for 或 while",
			"参考解法使用了循环。",
		)
	}

	return accept("很好！你的 C++ 解答通过了检查", "代码结构正确且完整。")
}
