package models

import "time"

// Statistics représente les chiffres clés affichés sur le site
type Statistics struct {
	ChildrenHelped       int64 `json:"childrenHelped" firestore:"childrenHelped" bson:"childrenHelped"`
	ProgramsRunning      int64 `json:"programsRunning" firestore:"programsRunning" bson:"programsRunning"`
	SuccessRate          int64 `json:"successRate" firestore:"successRate" bson:"successRate"`
	PartnerOrganizations int64 `json:"partnerOrganizations" firestore:"partnerOrganizations" bson:"partnerOrganizations"`
}

// StatisticsRequest accepte des nombres ou des chaînes numériques
type StatisticsRequest struct {
	ChildrenHelped       FlexibleNumber `json:"childrenHelped"`
	ProgramsRunning      FlexibleNumber `json:"programsRunning"`
	SuccessRate          FlexibleNumber `json:"successRate"`
	PartnerOrganizations FlexibleNumber `json:"partnerOrganizations"`
}

// StatisticsResponse représente la réponse de mise à jour
type StatisticsResponse struct {
	Success    bool       `json:"success"`
	Statistics Statistics `json:"statistics"`
	Message    string     `json:"message,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
