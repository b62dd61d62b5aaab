package let

import "reflect"

// Clone deep copies a binding snapshot so layers stay detached from caller
// owned maps and slices.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

// MergeLayers composes binding snapshots ordered weakest to strongest: later
// layers override earlier ones, maps merge key-wise, everything else is
// replaced wholesale.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}
	merged := cloneValue(reflect.ValueOf(layers[0]))
	for _, layer := range layers[1:] {
		merged = overlayValue(reflect.ValueOf(layer), merged)
	}
	if !merged.IsValid() {
		return zero
	}
	return merged.Interface().(T)
}

// overlayValue applies strong on top of weak.
func overlayValue(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return weak
	}
	switch strong.Kind() {
	case reflect.Interface:
		if strong.IsNil() {
			return weak
		}
		var weakElem reflect.Value
		if weak.IsValid() && weak.Kind() == reflect.Interface && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		return overlayValue(strong.Elem(), weakElem)
	case reflect.Map:
		if strong.IsNil() {
			return weak
		}
		result := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && weak.Kind() == reflect.Map && !weak.IsNil() && weak.Type() == strong.Type() {
			iter := weak.MapRange()
			for iter.Next() {
				result.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
			}
		}
		iter := strong.MapRange()
		for iter.Next() {
			key := iter.Key()
			if existing := result.MapIndex(key); existing.IsValid() {
				merged := overlayValue(iter.Value(), existing)
				if merged.IsValid() && merged.Type().AssignableTo(strong.Type().Elem()) {
					result.SetMapIndex(key, merged)
					continue
				}
			}
			result.SetMapIndex(key, cloneValue(iter.Value()))
		}
		return result
	default:
		return cloneValue(strong)
	}
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if field.CanSet() {
				field.Set(cloneValue(v.Field(i)))
			}
		}
		return clone
	default:
		return v
	}
}
