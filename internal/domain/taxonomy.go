package domain

import (
	"fmt"
	"strings"
)

// CategorySeparator joins a top-level category and its subcategory.
const CategorySeparator = "-"

// PhraseCategory is a top-level group of the template taxonomy.
type PhraseCategory struct {
	Name          string
	Subcategories []Subcategory
}

// Subcategory is a second-level bucket with a short scope note for the classifier.
type Subcategory struct {
	Name  string
	Scope string
}

// Taxonomy is the fixed classification used for reusable clinical phrases.
var Taxonomy = []PhraseCategory{
	{
		Name: "基础评估与诊断",
		Subcategories: []Subcategory{
			{"症状采集", "主诉、现病史、既往史"},
			{"体格检查", "肌力、肌张力、关节活动度、平衡功能"},
			{"辅助检查", "影像学、实验室检查、电生理检查"},
			{"诊断结论", "中医诊断、西医诊断"},
		},
	},
	{
		Name: "治疗方案制定",
		Subcategories: []Subcategory{
			{"中医特色治疗", "针刺治疗、电针参数、方义解析"},
			{"中药治疗", "方剂名称、药物组成、剂量、煎服法"},
			{"西药治疗", "药物名称、剂量、给药途径、治疗目的"},
			{"康复治疗", "运动功能训练、训练方法、强度"},
			{"护理操作", "分级护理、特殊操作如导尿/吸痰"},
		},
	},
	{
		Name: "管理与监测",
		Subcategories: []Subcategory{
			{"医嘱与护理", "饮食类别、护理级别、体位要求"},
			{"风险防控", "跌倒/压疮/误吸/血栓预防措施"},
			{"病情监测", "生命体征记录、血糖/血压监测、症状变化"},
			{"并发症处理", "感染、痉挛、肩手综合征的管理"},
		},
	},
	{
		Name: "医患沟通与记录",
		Subcategories: []Subcategory{
			{"医患沟通", "知情同意、康复预期、费用说明"},
			{"健康宣教", "家庭训练指导、生活方式指导、用药教育"},
		},
	},
}

// Category renders a taxonomy pair as "大类-二级".
func Category(top, sub string) string {
	return top + CategorySeparator + sub
}

// ParseCategory splits and validates a "大类-二级" category.
func ParseCategory(category string) (top, sub string, err error) {
	top, sub, ok := strings.Cut(strings.TrimSpace(category), CategorySeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: category %q is not of the form 大类-二级", ErrInvalidFormat, category)
	}
	top, sub = strings.TrimSpace(top), strings.TrimSpace(sub)
	for _, c := range Taxonomy {
		if c.Name != top {
			continue
		}
		for _, s := range c.Subcategories {
			if s.Name == sub {
				return top, sub, nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: unknown category %q", ErrValidation, category)
}

// IsValidCategory reports whether category is a known taxonomy pair.
func IsValidCategory(category string) bool {
	_, _, err := ParseCategory(category)
	return err == nil
}

// Categories lists every valid "大类-二级" pair in taxonomy order.
func Categories() []string {
	var out []string
	for _, c := range Taxonomy {
		for _, s := range c.Subcategories {
			out = append(out, Category(c.Name, s.Name))
		}
	}
	return out
}
