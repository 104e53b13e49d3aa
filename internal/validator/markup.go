package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var tagPattern = regexp.MustCompile(`<(\w+)`)

// MarkupValidator 校验 HTML/CSS/XML 提交：比对参考答案中出现的标签集合。
// 缺少不超过两个标签时仍然接受，只在反馈中注明
type MarkupValidator struct{}

func (MarkupValidator) Validate(submitted, reference string) Result {
	missing := missingTags(strings.ToLower(submitted), strings.ToLower(reference))

	switch {
	case len(missing) == 0:
		return accept("完美！所有必需的元素都齐了", "页面结构正确。")
	case len(missing) <= 2:
		return accept(
			"不错！解法采用了不同的写法，同样被接受",
			fmt.Sprintf("提示：你也可以使用 %s", strings.Join(missing, "、")),
		)
	default:
		show := missing
		if len(show) > 3 {
			show = show[:3]
		}
		return reject(
			"缺少一些重要的元素",
			fmt.Sprintf("试着加上 %s", strings.Join(show, "、")),
			"对照参考结构检查缺少的标签。",
		)
	}
}

// missingTags 返回参考答案用到而提交中没有的标签，按字典序排序保证输出稳定
func missingTags(submitted, reference string) []string {
	submittedTags := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(submitted, -1) {
		submittedTags[m[1]] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, m := range tagPattern.FindAllStringSubmatch(reference, -1) {
		tag := m[1]
		if !submittedTags[tag] && !seen[tag] {
			seen[tag] = true
			missing = append(missing, tag)
		}
	}
	sort.Strings(missing)
	return missing
}
