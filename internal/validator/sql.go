package validator

import "strings"

// SQLValidator 校验 SQL 提交，大小写不敏感
type SQLValidator struct{}

func (SQLValidator) Validate(submitted, reference string) Result {
	codeUpper := strings.ToUpper(submitted)
	refUpper := strings.ToUpper(reference)

	if !containsAny(codeUpper, "SELECT", "INSERT", "UPDATE", "DELETE", "CREATE") {
		return reject(
			"你的代码需要一条 SQL 查询",
			"使用 SELECT、INSERT、UPDATE、DELETE 或 CREATE",
			"请写出一条有效的 SQL 语句。",
		)
	}

	hasSelect := strings.Contains(codeUpper, "SELECT")
	if strings.Contains(refUpper, "SELECT") && !hasSelect {
		return reject(
			"你的查询需要使用 SELECT",
			"参考解法使用了 SELECT",
			"用 SELECT 查询数据。",
		)
	}

	if strings.Contains(refUpper, "SELECT") && hasSelect &&
		strings.Contains(refUpper, "FROM") && !strings.Contains(codeUpper, "FROM") {
		return reject(
			"你的 SELECT 查询需要 FROM 子句",
			"用 FROM 表名 指定数据来源",
			"SELECT 需要配合 FROM 指定查询的表。",
		)
	}

	if strings.Contains(refUpper, "WHERE") && !strings.Contains(codeUpper, "WHERE") {
		return reject(
			"你的查询需要 WHERE 子句",
			"添加 WHERE 过滤结果",
			"参考解法使用了 WHERE。",
		)
	}

	if strings.Contains(refUpper, "JOIN") && !strings.Contains(codeUpper, "JOIN") {
		return reject(
			"你的查询需要 JOIN",
			"使用 JOIN 关联多张表",
			"参考解法使用了 JOIN。",
		)
	}

	if len(strings.TrimSpace(submitted)) > 10 {
		return accept("很好！你的 SQL 查询通过了检查", "查询语句正确。")
	}

	return reject(
		"SQL 查询看起来还不完整",
		"检查是否用对了 SQL 关键字（SELECT、FROM、WHERE 等）",
		"试着写出一条完整的 SQL 查询。",
	)
}
