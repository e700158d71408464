package dataprocessing

import "footlens/pkg/contracts/domain"

// AgeGroupFor buckets an age with right-closed edges 0/23/26/29. Ages above
// 29 are Veteran; missing or non-positive ages get no group.
func AgeGroupFor(age domain.NullFloat) domain.AgeGroup {
	if !age.Valid || age.Float64 <= 0 {
		return ""
	}
	switch a := age.Float64; {
	case a <= 23:
		return domain.AgeGroupYoung
	case a <= 26:
		return domain.AgeGroupPrime
	case a <= 29:
		return domain.AgeGroupExperienced
	default:
		return domain.AgeGroupVeteran
	}
}

// SkillGroupFor buckets a FIFA rating with right-closed edges 0/75/80/85.
func SkillGroupFor(rating domain.NullFloat) domain.SkillGroup {
	if !rating.Valid || rating.Float64 <= 0 {
		return ""
	}
	switch r := rating.Float64; {
	case r <= 75:
		return domain.SkillGroupAverage
	case r <= 80:
		return domain.SkillGroupGood
	case r <= 85:
		return domain.SkillGroupVeryGood
	default:
		return domain.SkillGroupElite
	}
}
