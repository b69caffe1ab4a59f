// Package eval computes evaluation metrics for survival-analysis
// models with right censored outcomes.  The metrics take precomputed
// survival-probability matrices together with the observed durations
// and event indicators; nothing here fits a model or produces
// predictions.
//
// The package provides time-dependent Brier scores and binomial
// log-likelihoods weighted by the inverse censoring distribution,
// integrated versions of both, the time-dependent concordance index
// of Antolini et al. (2005) with an adjusted tie rule, and the
// partial log-likelihood for proportional hazards models.
package eval
