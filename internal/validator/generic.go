package validator

import "fmt"

// GenericValidator 对未识别语言做宽松的逐字符相似度比对
type GenericValidator struct{}

func (GenericValidator) Validate(submitted, reference string) Result {
	submittedClean := compact(submitted)
	referenceClean := compact(reference)

	if len(submittedClean) < 15 {
		return reject(
			"你的代码太短了",
			"请写出更完整的解答",
			"代码应当包含几行有效逻辑。",
		)
	}

	similarity := positionalSimilarity(submittedClean, referenceClean)

	switch {
	case similarity > 0.7:
		return accept("解答通过了检查！", "你的思路是可行的。")
	case similarity > 0.5:
		return reject(
			"你的解答很接近了，但还不完全正确",
			"仔细检查逻辑，并对照题目说明",
			fmt.Sprintf("相似度 %d%%，再试一次！", int(similarity*100)),
		)
	default:
		return reject(
			"再试一次",
			"重新阅读题目说明，对照示例检查",
			"你的解答与预期差别很大。",
		)
	}
}
