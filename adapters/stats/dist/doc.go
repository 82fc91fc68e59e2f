// Package dist implements the special functions behind the p-values reported by the
// association and regression code: log-gamma, the regularized incomplete beta and gamma
// functions, and the F, chi-squared and standard normal distribution functions.
//
// Every function returns NaN for arguments outside its domain instead of panicking, so a
// caller sweeping many attribute pairs can treat NaN as "statistic undefined" and move on.
package dist
