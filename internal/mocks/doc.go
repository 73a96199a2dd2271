// Package mocks provides shared testify mocks for the store interfaces and
// the generation completer.
//
// WithTx on every store mock returns the mock itself, so expectations set on
// it also apply inside store.RunInTransaction callbacks.
//
//	patients := &mocks.PatientStore{}
//	patients.On("GetByHospitalNumber", mock.Anything, "ZY001").Return(p, nil)
package mocks
