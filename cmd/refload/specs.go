package main

import "refdata/tableparse"

// inpatientProviderSpec describes the positional layout of the inpatient
// provider-specific CSV extract. Date columns carry YYYYMMDD integers.
func inpatientProviderSpec() tableparse.ColumnSpec {
	return tableparse.ColumnSpec{
		Key:           "provider_ccn",
		EffectiveDate: "effective_date",
		EndDate:       "termination_date",
		Columns: []tableparse.Column{
			{Name: "provider_ccn", Position: 0, Type: tableparse.Text},
			{Name: "effective_date", Position: 1, Type: tableparse.Integer},
			{Name: "fiscal_year_begin_date", Position: 2, Type: tableparse.Integer},
			{Name: "export_date", Position: 3, Type: tableparse.Integer},
			{Name: "termination_date", Position: 4, Type: tableparse.Integer},
			{Name: "waiver_indicator", Position: 5, Type: tableparse.Text},
			{Name: "intermediary_number", Position: 6, Type: tableparse.Text},
			{Name: "provider_type", Position: 7, Type: tableparse.Text},
			{Name: "census_division", Position: 8, Type: tableparse.Text},
			{Name: "msa_actual_geographic_location", Position: 9, Type: tableparse.Text},
			{Name: "msa_wage_index_location", Position: 10, Type: tableparse.Text},
			{Name: "msa_standardized_amount_location", Position: 11, Type: tableparse.Text},
			{Name: "sole_community_or_medicare_dependent_hospital_base_year", Position: 12, Type: tableparse.Text},
			{Name: "change_code_for_lugar_reclassification", Position: 13, Type: tableparse.Text},
			{Name: "temporary_relief_indicator", Position: 14, Type: tableparse.Text},
			{Name: "federal_pps_blend", Position: 15, Type: tableparse.Text},
			{Name: "state_code", Position: 16, Type: tableparse.Text},
			{Name: "pps_facility_specific_rate", Position: 17, Type: tableparse.Real},
			{Name: "cost_of_living_adjustment", Position: 18, Type: tableparse.Real},
			{Name: "interns_to_beds_ratio", Position: 19, Type: tableparse.Real},
			{Name: "bed_size", Position: 20, Type: tableparse.Integer},
			{Name: "operating_cost_to_charge_ratio", Position: 21, Type: tableparse.Real},
			{Name: "case_mix_index", Position: 22, Type: tableparse.Real},
			{Name: "supplemental_security_income_ratio", Position: 23, Type: tableparse.Real},
			{Name: "medicaid_ratio", Position: 24, Type: tableparse.Real},
			{Name: "special_provider_update_factor", Position: 25, Type: tableparse.Real},
			{Name: "operating_dsh", Position: 26, Type: tableparse.Real},
			{Name: "fiscal_year_end_date", Position: 27, Type: tableparse.Integer},
			{Name: "special_payment_indicator", Position: 28, Type: tableparse.Text},
			{Name: "hosp_quality_indicator", Position: 29, Type: tableparse.Text},
			{Name: "cbsa_actual_geographic_location", Position: 30, Type: tableparse.Text},
			{Name: "cbsa_wi_location", Position: 31, Type: tableparse.Text},
			{Name: "cbsa_standardized_amount_location", Position: 32, Type: tableparse.Text},
			{Name: "special_wage_index", Position: 33, Type: tableparse.Real},
			{Name: "pass_through_amount_for_capital", Position: 34, Type: tableparse.Real},
			{Name: "pass_through_amount_for_direct_medical_education", Position: 35, Type: tableparse.Real},
			{Name: "pass_through_amount_for_organ_acquisition", Position: 36, Type: tableparse.Real},
			{Name: "pass_through_total_amount", Position: 37, Type: tableparse.Real},
			{Name: "capital_pps_payment_code", Position: 38, Type: tableparse.Text},
			{Name: "hospital_specific_capital_rate", Position: 39, Type: tableparse.Real},
			{Name: "old_capital_hold_harmless_rate", Position: 40, Type: tableparse.Real},
			{Name: "new_capital_hold_harmless_rate", Position: 41, Type: tableparse.Real},
			{Name: "capital_cost_to_charge_ratio", Position: 42, Type: tableparse.Real},
			{Name: "new_hospital", Position: 43, Type: tableparse.Text},
			{Name: "capital_indirect_medical_education_ratio", Position: 44, Type: tableparse.Real},
			{Name: "capital_exception_payment_rate", Position: 45, Type: tableparse.Real},
			{Name: "vpb_participant_indicator", Position: 46, Type: tableparse.Text},
			{Name: "vbp_adjustment", Position: 47, Type: tableparse.Real},
			{Name: "hrr_participant_indicator", Position: 48, Type: tableparse.Integer},
			{Name: "hrr_adjustment", Position: 49, Type: tableparse.Real},
			{Name: "bundle_model_discount", Position: 50, Type: tableparse.Real},
			{Name: "hac_reduction_participant_indicator", Position: 51, Type: tableparse.Text},
			{Name: "uncompensated_care_amount", Position: 52, Type: tableparse.Real},
			{Name: "ehr_reduction_indicator", Position: 53, Type: tableparse.Text},
			{Name: "low_volume_adjustment_factor", Position: 54, Type: tableparse.Real},
			{Name: "county_code", Position: 55, Type: tableparse.Text},
			{Name: "medicare_performance_adjustment", Position: 56, Type: tableparse.Real},
			{Name: "ltch_dpp_indicator", Position: 57, Type: tableparse.Text},
			{Name: "supplemental_wage_index", Position: 58, Type: tableparse.Real},
			{Name: "supplemental_wage_index_indicator", Position: 59, Type: tableparse.Text},
			{Name: "change_code_wage_index_reclassification", Position: 60, Type: tableparse.Text},
			{Name: "national_provider_identifier", Position: 61, Type: tableparse.Text},
			{Name: "pass_through_amount_for_allogenic_stem_cell_acquisition", Position: 62, Type: tableparse.Real},
			{Name: "pps_blend_year_indicator", Position: 63, Type: tableparse.Text},
			{Name: "last_updated", Position: 64, Type: tableparse.Text},
			{Name: "pass_through_amount_for_direct_graduate_medical_education", Position: 65, Type: tableparse.Real},
			{Name: "pass_through_amount_for_kidney_acquisition", Position: 66, Type: tableparse.Real},
			{Name: "pass_through_amount_for_supply_chain", Position: 67, Type: tableparse.Real},
		},
	}
}

// outpatientProviderSpec describes the outpatient provider extract, which
// adds the carrier and locality codes used for ZIP-based pricing.
func outpatientProviderSpec() tableparse.ColumnSpec {
	return tableparse.ColumnSpec{
		Key:           "provider_ccn",
		EffectiveDate: "effective_date",
		EndDate:       "termination_date",
		Columns: []tableparse.Column{
			{Name: "provider_ccn", Position: 0, Type: tableparse.Text},
			{Name: "effective_date", Position: 1, Type: tableparse.Integer},
			{Name: "national_provider_identifier", Position: 2, Type: tableparse.Text},
			{Name: "fiscal_year_begin_date", Position: 3, Type: tableparse.Integer},
			{Name: "export_date", Position: 4, Type: tableparse.Integer},
			{Name: "termination_date", Position: 5, Type: tableparse.Integer},
			{Name: "waiver_indicator", Position: 6, Type: tableparse.Text},
			{Name: "intermediary_number", Position: 7, Type: tableparse.Text},
			{Name: "provider_type", Position: 8, Type: tableparse.Text},
			{Name: "special_locality_indicator", Position: 9, Type: tableparse.Text},
			{Name: "change_code_wage_index_reclassification", Position: 10, Type: tableparse.Text},
			{Name: "msa_actual_geographic_location", Position: 11, Type: tableparse.Text},
			{Name: "msa_wage_index_location", Position: 12, Type: tableparse.Text},
			{Name: "cost_of_living_adjustment", Position: 13, Type: tableparse.Real},
			{Name: "state_code", Position: 14, Type: tableparse.Text},
			{Name: "tops_indicator", Position: 15, Type: tableparse.Text},
			{Name: "hospital_quality_indicator", Position: 16, Type: tableparse.Text},
			{Name: "operating_cost_to_charge_ratio", Position: 17, Type: tableparse.Real},
			{Name: "cbsa_actual_geographic_location", Position: 18, Type: tableparse.Text},
			{Name: "cbsa_wage_index_location", Position: 19, Type: tableparse.Text},
			{Name: "special_wage_index", Position: 20, Type: tableparse.Real},
			{Name: "special_payment_indicator", Position: 21, Type: tableparse.Text},
			{Name: "esrd_children_quality_indicator", Position: 22, Type: tableparse.Text},
			{Name: "device_cost_to_charge_ratio", Position: 23, Type: tableparse.Real},
			{Name: "county_code", Position: 24, Type: tableparse.Text},
			{Name: "payment_cbsa", Position: 25, Type: tableparse.Text},
			{Name: "payment_model_adjustment", Position: 26, Type: tableparse.Real},
			{Name: "medicare_performance_adjustment", Position: 27, Type: tableparse.Real},
			{Name: "supplemental_wage_index_indicator", Position: 28, Type: tableparse.Text},
			{Name: "supplemental_wage_index", Position: 29, Type: tableparse.Real},
			{Name: "last_updated", Position: 30, Type: tableparse.Text},
			{Name: "carrier_code", Position: 31, Type: tableparse.Text},
			{Name: "locality_code", Position: 32, Type: tableparse.Text},
		},
	}
}
