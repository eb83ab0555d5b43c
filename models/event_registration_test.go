package models

import "testing"

func TestPricingInput_Resolve(t *testing.T) {
	t.Run("nil utilise tous les tarifs par défaut", func(t *testing.T) {
		var p *PricingInput
		tiers := p.Resolve()
		if tiers.Student != DefaultPriceStudent {
			t.Errorf("Student = %v, attendu %v", tiers.Student, DefaultPriceStudent)
		}
		if tiers.Full != DefaultPriceFull {
			t.Errorf("Full = %v, attendu %v", tiers.Full, DefaultPriceFull)
		}
		if tiers.Affiliate != DefaultPriceAffiliate {
			t.Errorf("Affiliate = %v, attendu %v", tiers.Affiliate, DefaultPriceAffiliate)
		}
		if tiers.NonMember != DefaultPriceNonMember {
			t.Errorf("NonMember = %v, attendu %v", tiers.NonMember, DefaultPriceNonMember)
		}
	})

	t.Run("palier fourni remplace le défaut", func(t *testing.T) {
		student := 5.0
		p := &PricingInput{Student: &student}
		tiers := p.Resolve()
		if tiers.Student != 5 {
			t.Errorf("Student = %v, attendu 5", tiers.Student)
		}
		if tiers.Full != DefaultPriceFull {
			t.Errorf("Full = %v, attendu %v", tiers.Full, DefaultPriceFull)
		}
	})

	t.Run("zéro explicite est conservé", func(t *testing.T) {
		zero := 0.0
		p := &PricingInput{NonMember: &zero}
		tiers := p.Resolve()
		if tiers.NonMember != 0 {
			t.Errorf("NonMember = %v, attendu 0", tiers.NonMember)
		}
	})
}

func TestPricingTiers_ForRole(t *testing.T) {
	tiers := PricingTiers{Student: 10, Full: 50, Affiliate: 30, NonMember: 100}

	tests := []struct {
		role string
		want float64
	}{
		{MembershipRoleStudent, 10},
		{MembershipRoleFull, 50},
		{MembershipRoleAffiliate, 30},
		{MembershipRoleNonMember, 100},
		{"inconnu", 100},
		{"", 100},
	}
	for _, tt := range tests {
		if got := tiers.ForRole(tt.role); got != tt.want {
			t.Errorf("ForRole(%q) = %v, attendu %v", tt.role, got, tt.want)
		}
	}
}
