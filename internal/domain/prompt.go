package domain

import (
	"fmt"
	"strings"
)

const inspirationTemplate = `作为一个生活博主，请根据以下场景提供新颖实用的建议：
- 场景：%s
- 心情：%s

请提供：
1. 3-5个实用小技巧
2. 适合的参考案例
3. 注意事项
4. 新手友好的建议
5. 博主私藏tips

请用清新活泼的语气，以markdown格式输出。`

const tipTemplate = `请为以下问题提供实用的解决方案：
- 问题：%s
- 场景：%s

请提供：
1. 问题分析
2. 3-5个解决妙招
3. 实操步骤
4. 避坑指南
5. 进阶建议

请用活泼可爱的语气，以markdown格式输出。`

const healingTemplate = `请根据当前心情提供温暖治愈的建议：
- 心情：%s
- 场景：%s

请提供：
1. 温暖的开场白
2. 3-5个治愈建议
3. 适合的音乐推荐
4. 美食安利
5. 治愈的生活仪式感

请用温暖治愈的语气，以markdown格式输出。`

const fortuneTemplate = `请为%s提供今日运势解读：
- 星座：%s
- 当前心情：%s

请提供以下内容：
1. 今日运势总评（1-5颗星）
2. 幸运指数
   - 爱情运：★★★★☆
   - 事业运：★★★★★
   - 财运：★★★☆☆
   - 健康运：★★★★☆
3. 幸运色和幸运数字
4. 今日宜忌
5. 运势详解
   - 感情方面
   - 工作方面
   - 财运方面
   - 健康建议
6. 开运小贴士

请用温暖活泼的语气，以markdown格式输出，可以适当加入emoji装饰。`

// BuildPrompt renders the fixed template for kind from the selection.
// The tip template needs a non-blank issue and returns ErrMissingInput
// without one.
func BuildPrompt(kind RequestKind, sel Selection) (string, error) {
	switch kind {
	case KindInspiration:
		return fmt.Sprintf(inspirationTemplate, sel.Scenario, sel.Mood), nil
	case KindTip:
		if strings.TrimSpace(sel.Issue) == "" {
			return "", ErrMissingInput
		}
		return fmt.Sprintf(tipTemplate, sel.Issue, sel.Scenario), nil
	case KindHealing:
		return fmt.Sprintf(healingTemplate, sel.Mood, sel.Scenario), nil
	case KindFortune:
		return fmt.Sprintf(fortuneTemplate, sel.Zodiac, sel.Zodiac, sel.Mood), nil
	default:
		return "", ErrUnknownKind
	}
}
