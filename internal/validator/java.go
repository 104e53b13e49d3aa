package validator

import "strings"

// JavaValidator 校验 Java 提交
type JavaValidator struct{}

func (JavaValidator) Validate(submitted, reference string) Result {
	codeLower := strings.ToLower(submitted)
	refLower := strings.ToLower(reference)

	if len(meaningfulLines(submitted, "//")) < 3 {
		return reject(
			"你的代码太短了",
			"一个 Java 程序至少需要类、方法和具体逻辑",
			"请写出完整的 Java 程序。",
		)
	}

	if !strings.Contains(submitted, "class") {
		return reject(
			"你的代码需要定义一个类",
			"添加 public class 类名 { ... }",
			"Java 程序必须写在类里。",
		)
	}

	if strings.Contains(refLower, "public static void main") && !strings.Contains(submitted, "public static void main") {
		return reject(
			"你的代码需要 main 方法",
			"添加 public static void main(String[] args) { ... }",
			"main 方法是程序的入口。",
		)
	}

	if strings.Contains(refLower, "system.out") && !strings.Contains(codeLower, "system.out") {
		return reject(
			"你的代码需要输出结果",
			"使用 System.out.println() 打印结果",
			"参考解法使用了 System.out。",
		)
	}

	if containsAny(refLower, "for", "while") && !containsAny(codeLower, "for", "while") {
		return reject(
			"你的代码需要一个循环",
			"使用 for 或 while",
			"参考解法使用了循环。",
		)
	}

	return accept("很好！你的 Java 解答通过了检查", "代码结构正确且完整。")
}
