package models

// AIMatchScore — внешняя оценка соответствия исполнителя требованиям заказа.
// Эфемерная: запрашивается на каждый заказ и нигде не сохраняется.
type AIMatchScore struct {
	FreelancerID      ID       `json:"freelancer_id"`
	CombinedScore     float64  `json:"combined_score"`
	SkillMatchPercent float64  `json:"skill_match_percent"`
	SimilarityScore   float64  `json:"similarity_score"`
	MatchedSkills     []string `json:"matched_skills,omitempty"`
	MissingSkills     []string `json:"missing_skills,omitempty"`
	AllSkills         []string `json:"all_skills,omitempty"`
}
